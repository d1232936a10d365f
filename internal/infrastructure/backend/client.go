package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/vitos/xau_money_management/internal/domain"
	"go.uber.org/zap"
)

// Client talks to the REST bridge in front of the MT5 terminal.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
	logger  *zap.Logger
	now     func() time.Time
}

func NewClient(baseURL, token string, timeout time.Duration, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
		now:     time.Now,
	}
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("API error %d on %s: %s", resp.StatusCode, path, strings.TrimSpace(string(body)))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// GetAccount builds the typed snapshot for one refresh. When the bridge
// omits the realized profit fields they are summed from deal history.
func (c *Client) GetAccount(ctx context.Context) (*domain.AccountSnapshot, error) {
	var p accountPayload
	if err := c.get(ctx, "/api/account", &p); err != nil {
		return nil, err
	}

	now := c.now().UTC()
	snap := &domain.AccountSnapshot{
		Login:          rawString(p.Login),
		Currency:       strings.ToUpper(p.Currency),
		Balance:        p.Balance.Value,
		Equity:         p.Equity.Value,
		EquityReported: p.Equity.Set,
		DailyProfit:    p.DailyProfit.Value,
		WeeklyProfit:   p.WeeklyProfit.Value,
		MonthlyProfit:  p.MonthlyProfit.Value,
		OpenPositions:  int(p.Positions.Value),
		TakenAt:        now,
	}
	if snap.Currency == "" {
		snap.Currency = "USD"
	}

	if !p.DailyProfit.Set || !p.WeeklyProfit.Set || !p.MonthlyProfit.Set {
		deals, err := c.GetDeals(ctx, earliestPeriodStart(now))
		if err != nil {
			return nil, fmt.Errorf("derive realized profit: %w", err)
		}
		daily, weekly, monthly := realizedByPeriod(deals, now)
		if !p.DailyProfit.Set {
			snap.DailyProfit = daily
		}
		if !p.WeeklyProfit.Set {
			snap.WeeklyProfit = weekly
		}
		if !p.MonthlyProfit.Set {
			snap.MonthlyProfit = monthly
		}
		c.logger.Debug("Derived realized profit from history",
			zap.Int("deals", len(deals)),
			zap.Float64("daily", snap.DailyProfit),
		)
	}

	return snap, nil
}

func (c *Client) GetPositions(ctx context.Context) ([]domain.Position, error) {
	var payload []positionPayload
	if err := c.get(ctx, "/api/positions", &payload); err != nil {
		return nil, err
	}
	positions := make([]domain.Position, 0, len(payload))
	for _, p := range payload {
		positions = append(positions, p.toDomain())
	}
	return positions, nil
}

func (c *Client) GetDeals(ctx context.Context, from time.Time) ([]domain.Deal, error) {
	q := url.Values{}
	q.Set("from", strconv.FormatInt(from.Unix(), 10))

	var payload []dealPayload
	if err := c.get(ctx, "/api/history?"+q.Encode(), &payload); err != nil {
		return nil, err
	}
	deals := make([]domain.Deal, 0, len(payload))
	for _, d := range payload {
		deals = append(deals, d.toDomain())
	}
	return deals, nil
}
