package services

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"finview/internal/models"
	"finview/internal/pagination"
)

// Notification types.
const (
	NotificationRecommended = "Recommended"
	NotificationCustom      = "Custom"
)

// Notification groups, relative to the time the feed is built.
const (
	GroupToday     = "Today"
	GroupYesterday = "Yesterday"
	GroupOlder     = "Older"
)

const setupTitle = "Account Setup & Custom Setup Created"

// notificationService builds the activity feed from the owner's budgets.
type notificationService struct {
	budgets BudgetServicer
	now     func() time.Time
}

// NewNotificationService creates a new NotificationServicer.
func NewNotificationService(budgets BudgetServicer) NotificationServicer {
	return &notificationService{budgets: budgets, now: time.Now}
}

// List returns the owner's notifications, newest first, filtered and paginated.
func (s *notificationService) List(ctx context.Context, ownerID string, filter NotificationFilter, page pagination.PageRequest) (*pagination.PageResponse[Notification], error) {
	budgets, err := s.budgets.ListBudgets(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	var items []Notification
	for i := range budgets {
		for _, n := range budgetNotifications(&budgets[i]) {
			n.Group = groupOf(n.CreatedAt, now)
			if filter.matches(n) {
				items = append(items, n)
			}
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})

	resp := pagination.Slice(items, page)
	return &resp, nil
}

func budgetNotifications(b *models.Budget) []Notification {
	kind := NotificationRecommended
	if b.Rule == models.BudgetRuleCustom {
		kind = NotificationCustom
	}

	title := b.Title
	if title == "" {
		title = "Untitled Setup"
	}

	out := make([]Notification, 0, len(b.Categories)+1)
	out = append(out, Notification{
		ID:        b.ID + "-setup",
		BudgetID:  b.ID,
		Type:      kind,
		Title:     setupTitle,
		Message:   fmt.Sprintf("%s - Income ₹%s", title, strconv.FormatFloat(b.Income, 'f', -1, 64)),
		CreatedAt: b.UpdatedAt,
	})

	for i, c := range b.Categories {
		kind := NotificationRecommended
		if c.Type == models.CategoryOriginCustom {
			kind = NotificationCustom
		}
		out = append(out, Notification{
			ID:        fmt.Sprintf("%s-cat-%d", b.ID, i),
			BudgetID:  b.ID,
			Type:      kind,
			Title:     c.Name,
			Message:   fmt.Sprintf("Amount ₹%d", c.Amount),
			CreatedAt: b.UpdatedAt,
		})
	}
	return out
}

func (f NotificationFilter) matches(n Notification) bool {
	if f.Type != "" && !strings.EqualFold(f.Type, "all") && !strings.EqualFold(f.Type, n.Type) {
		return false
	}
	if f.Query != "" {
		haystack := strings.ToLower(n.Title + n.Message)
		if !strings.Contains(haystack, strings.ToLower(f.Query)) {
			return false
		}
	}
	return true
}

func groupOf(t, now time.Time) string {
	y1, m1, d1 := t.In(now.Location()).Date()
	y2, m2, d2 := now.Date()
	if y1 == y2 && m1 == m2 && d1 == d2 {
		return GroupToday
	}
	y3, m3, d3 := now.AddDate(0, 0, -1).Date()
	if y1 == y3 && m1 == m3 && d1 == d3 {
		return GroupYesterday
	}
	return GroupOlder
}
