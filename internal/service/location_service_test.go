package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"cab-booking/backend/internal/dto"
)

// ── 测试辅助 ──

func setupTestLocationService(t *testing.T) (LocationService, *testRepos) {
	t.Helper()
	r := newTestRepos()
	return NewLocationService(r.repo, zap.NewNop()), r
}

func floatPtr(f float64) *float64 { return &f }

// ── Create 测试 ──

func TestLocationService_Create_Success(t *testing.T) {
	svc, _ := setupTestLocationService(t)

	result, err := svc.Create(context.Background(), &dto.CreateLocationRequest{
		Name:               "Whitefield Tech Park",
		Address:            "ITPL Main Rd",
		Latitude:           floatPtr(12.9863),
		Longitude:          floatPtr(77.7370),
		DistanceFromOffice: floatPtr(15.2),
	}, "admin-1")
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if result.Name != "Whitefield Tech Park" || result.DistanceFromOffice != 15.2 {
		t.Errorf("创建结果不正确: %+v", result)
	}
	if !result.IsActive {
		t.Error("新地点应默认启用")
	}
}

// ── GetByID / List 测试 ──

func TestLocationService_GetByID(t *testing.T) {
	svc, r := setupTestLocationService(t)
	r.addLocation("loc-001", "Office", 0)

	result, err := svc.GetByID(context.Background(), "loc-001")
	if err != nil || result.Name != "Office" {
		t.Fatalf("GetByID 不正确: %v %+v", err, result)
	}
	if _, err := svc.GetByID(context.Background(), "nonexistent"); !errors.Is(err, ErrLocationNotFound) {
		t.Errorf("期望 ErrLocationNotFound，实际: %v", err)
	}
}

func TestLocationService_List_InactiveHiddenByDefault(t *testing.T) {
	svc, r := setupTestLocationService(t)
	r.addLocation("loc-1", "Airport", 15)
	r.addLocation("loc-2", "Mall", 5).IsActive = false

	active, err := svc.List(context.Background(), &dto.LocationListRequest{})
	if err != nil || len(active) != 1 {
		t.Fatalf("默认只返回启用地点: %v %+v", err, active)
	}

	all, _ := svc.List(context.Background(), &dto.LocationListRequest{IncludeInactive: true})
	if len(all) != 2 {
		t.Errorf("includeInactive 应返回全部，实际 %d", len(all))
	}
}

// ── Update 测试 ──

func TestLocationService_Update(t *testing.T) {
	svc, r := setupTestLocationService(t)
	r.addLocation("loc-001", "Office", 0)

	inactive := false
	result, err := svc.Update(context.Background(), "loc-001", &dto.UpdateLocationRequest{
		Name:               strPtr("HQ"),
		DistanceFromOffice: floatPtr(0.5),
		IsActive:           &inactive,
	}, "admin-1")
	if err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}
	if result.Name != "HQ" || result.DistanceFromOffice != 0.5 || result.IsActive {
		t.Errorf("更新结果不正确: %+v", result)
	}

	if _, err := svc.Update(context.Background(), "nonexistent", &dto.UpdateLocationRequest{}, "admin-1"); !errors.Is(err, ErrLocationNotFound) {
		t.Errorf("期望 ErrLocationNotFound，实际: %v", err)
	}
}

// ── Delete 测试 ──

func TestLocationService_Delete(t *testing.T) {
	svc, r := setupTestLocationService(t)
	r.addLocation("loc-001", "Office", 0)

	if err := svc.Delete(context.Background(), "loc-001", "admin-1"); err != nil {
		t.Fatalf("Delete 应成功: %v", err)
	}
	if _, ok := r.locations.locations["loc-001"]; ok {
		t.Error("删除后地点不应存在")
	}
	if err := svc.Delete(context.Background(), "loc-001", "admin-1"); !errors.Is(err, ErrLocationNotFound) {
		t.Errorf("重复删除期望 ErrLocationNotFound，实际: %v", err)
	}
}
