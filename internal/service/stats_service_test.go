package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"cab-booking/backend/internal/model"
	"cab-booking/backend/internal/repository"
)

func setupStatsService(t *testing.T) (*statsService, *mockStatsRepo) {
	t.Helper()
	r := newTestRepos()
	svc := NewStatsService(r.repo, testZone, zap.NewNop()).(*statsService)
	svc.now = func() time.Time { return fixedNow }
	return svc, r.stats
}

func TestGetDashboard_AggregatesAndZeroFills(t *testing.T) {
	svc, stats := setupStatsService(t)
	stats.users = repository.UserCounts{Total: 12, NewThisWeek: 3, ActiveToday: 5}
	stats.drivers = repository.DriverCounts{Total: 4, Available: 2, OnDuty: 1}
	stats.byStatus = map[string]int64{
		model.BookingStatusPending:   2,
		model.BookingStatusCompleted: 5,
	}
	stats.incidents = repository.IncidentCounts{Total: 1, Pending: 1}
	stats.revenue = repository.RevenueSums{AllTime: 5050, ThisMonth: 2020, LastMonth: 3030}
	stats.daily = []repository.DailyValue{
		{Day: "2026-03-04", Value: 1},
		{Day: "2026-03-09", Value: 4},
	}

	resp, err := svc.GetDashboard(context.Background())
	if err != nil {
		t.Fatalf("期望成功: %v", err)
	}

	if resp.Users.Total != 12 || resp.Drivers.OnDuty != 1 || resp.Revenue.ThisMonth != 2020 {
		t.Errorf("聚合结果不正确: %+v", resp)
	}

	if len(resp.Bookings.ByStatus) != len(model.BookingStatuses) {
		t.Errorf("byStatus 应包含全部 %d 个状态，实际 %d", len(model.BookingStatuses), len(resp.Bookings.ByStatus))
	}
	if v, ok := resp.Bookings.ByStatus[model.BookingStatusCancelled]; !ok || v != 0 {
		t.Error("无数据的状态应补零")
	}
	if resp.Bookings.Total != 7 {
		t.Errorf("总数应为各状态之和 7，实际 %d", resp.Bookings.Total)
	}

	trend := resp.Trends.Bookings
	if len(trend) != 7 {
		t.Fatalf("趋势应为 7 天，实际 %d", len(trend))
	}
	if trend[0].Date != "2026-03-04" || trend[6].Date != "2026-03-10" {
		t.Errorf("趋势应从 03-04 到 03-10 升序，实际 %s..%s", trend[0].Date, trend[6].Date)
	}
	if trend[0].Value != 1 || trend[5].Value != 4 || trend[6].Value != 0 {
		t.Errorf("趋势取值或补零不正确: %+v", trend)
	}
	if len(resp.Trends.Revenue) != 7 || len(resp.Trends.Incidents) != 7 {
		t.Error("收入与事件趋势也应补齐 7 天")
	}

	if stats.trendTZ != "IST" {
		t.Errorf("按日聚合应使用业务时区，实际 %s", stats.trendTZ)
	}
	wantFrom := time.Date(2026, 3, 4, 0, 0, 0, 0, testZone)
	if !stats.trendFrom.Equal(wantFrom) || !stats.trendTo.Equal(wantFrom.AddDate(0, 0, 7)) {
		t.Errorf("趋势区间不正确: %v ~ %v", stats.trendFrom, stats.trendTo)
	}
}

func TestGetDashboard_RevenueMonthBounds(t *testing.T) {
	svc, stats := setupStatsService(t)
	svc.now = func() time.Time { return time.Date(2026, 12, 15, 10, 0, 0, 0, testZone) }

	if _, err := svc.GetDashboard(context.Background()); err != nil {
		t.Fatalf("期望成功: %v", err)
	}

	want := [3]time.Time{
		time.Date(2026, 11, 1, 0, 0, 0, 0, testZone),
		time.Date(2026, 12, 1, 0, 0, 0, 0, testZone),
		time.Date(2027, 1, 1, 0, 0, 0, 0, testZone),
	}
	for i, b := range stats.revenueBounds {
		if !b.Equal(want[i]) {
			t.Errorf("营收月份边界[%d] 期望 %v，实际 %v", i, want[i], b)
		}
	}
}

func TestGetDashboard_AnyFailureIsUnavailable(t *testing.T) {
	svc, stats := setupStatsService(t)
	stats.err = errors.New("statement timeout")

	resp, err := svc.GetDashboard(context.Background())
	if !errors.Is(err, ErrStatsUnavailable) {
		t.Fatalf("期望 ErrStatsUnavailable，实际: %v", err)
	}
	if resp != nil {
		t.Error("失败时不应返回部分结果")
	}
}
