package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"cab-booking/backend/internal/dto"
	"cab-booking/backend/internal/model"
)

// ── Vehicle ──

func TestVehicleService_CRUD(t *testing.T) {
	r := newTestRepos()
	svc := NewVehicleService(r.repo, zap.NewNop())
	ctx := context.Background()

	created, err := svc.Create(ctx, &dto.CreateVehicleRequest{
		Model: "Toyota Innova", LicensePlate: "KA01AB1234", Type: model.VehicleTypeSUV, Capacity: 6,
	}, admin.ID)
	if err != nil {
		t.Fatalf("创建车辆失败: %v", err)
	}
	if created.Status != model.VehicleStatusAvailable {
		t.Errorf("新车辆应为 AVAILABLE，实际 %s", created.Status)
	}

	status := model.VehicleStatusMaintenance
	updated, err := svc.Update(ctx, created.ID, &dto.UpdateVehicleRequest{Status: &status}, admin.ID)
	if err != nil || updated.Status != model.VehicleStatusMaintenance {
		t.Fatalf("更新车辆状态失败: %v", err)
	}

	list, err := svc.List(ctx, &dto.VehicleListRequest{Type: model.VehicleTypeSedan})
	if err != nil || len(list) != 0 {
		t.Errorf("按车型筛选应为空: %v %+v", err, list)
	}

	if err := svc.Delete(ctx, created.ID, admin.ID); err != nil {
		t.Fatalf("删除车辆失败: %v", err)
	}
	if _, err := svc.GetByID(ctx, created.ID); !errors.Is(err, ErrVehicleNotFound) {
		t.Errorf("删除后应返回 ErrVehicleNotFound，实际: %v", err)
	}
}

func TestVehicleCreate_DuplicatePlate(t *testing.T) {
	r := newTestRepos()
	svc := NewVehicleService(r.repo, zap.NewNop())
	req := &dto.CreateVehicleRequest{Model: "Swift Dzire", LicensePlate: "KA05MN7788", Type: model.VehicleTypeSedan, Capacity: 4}

	if _, err := svc.Create(context.Background(), req, admin.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Create(context.Background(), req, admin.ID); !errors.Is(err, ErrPlateExists) {
		t.Errorf("重复车牌应返回 ErrPlateExists，实际: %v", err)
	}
}

// ── Driver ──

func setupDriverService(t *testing.T) (DriverService, *testRepos) {
	t.Helper()
	r := newTestRepos()
	r.addUser(driverAcc.ID, model.RoleDriver)
	r.addUser(employee.ID, model.RoleEmployee)
	r.vehicles.vehicles["veh-1"] = &model.Vehicle{VehicleID: "veh-1", Type: model.VehicleTypeSedan, Capacity: 4, Status: model.VehicleStatusAvailable}
	return NewDriverService(r.repo, zap.NewNop()), r
}

func TestDriverCreate_Rules(t *testing.T) {
	svc, r := setupDriverService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, &dto.CreateDriverRequest{UserID: employee.ID, LicenseNumber: "DL-1"}, admin.ID); !errors.Is(err, ErrDriverUserInvalid) {
		t.Errorf("非 DRIVER 账号应返回 ErrDriverUserInvalid，实际: %v", err)
	}
	if _, err := svc.Create(ctx, &dto.CreateDriverRequest{UserID: "ghost", LicenseNumber: "DL-1"}, admin.ID); !errors.Is(err, ErrDriverUserInvalid) {
		t.Errorf("账号不存在应返回 ErrDriverUserInvalid，实际: %v", err)
	}
	missing := "veh-x"
	if _, err := svc.Create(ctx, &dto.CreateDriverRequest{UserID: driverAcc.ID, LicenseNumber: "DL-1", VehicleID: &missing}, admin.ID); !errors.Is(err, ErrVehicleNotFound) {
		t.Errorf("车辆不存在应返回 ErrVehicleNotFound，实际: %v", err)
	}

	vehicle := "veh-1"
	created, err := svc.Create(ctx, &dto.CreateDriverRequest{UserID: driverAcc.ID, LicenseNumber: "DL-1", VehicleID: &vehicle}, admin.ID)
	if err != nil {
		t.Fatalf("创建司机档案失败: %v", err)
	}
	if created.Status != model.DriverStatusOffDuty {
		t.Errorf("新档案应为 OFF_DUTY，实际 %s", created.Status)
	}
	if len(r.drivers.drivers) != 1 {
		t.Errorf("应写入一条档案，实际 %d", len(r.drivers.drivers))
	}

	if _, err := svc.Create(ctx, &dto.CreateDriverRequest{UserID: driverAcc.ID, LicenseNumber: "DL-2"}, admin.ID); !errors.Is(err, ErrDriverExists) {
		t.Errorf("重复建档应返回 ErrDriverExists，实际: %v", err)
	}
}

func TestDriverUpdateOwnStatus(t *testing.T) {
	svc, r := setupDriverService(t)
	ctx := context.Background()

	if _, err := svc.UpdateOwnStatus(ctx, driverAcc.ID, model.DriverStatusAvailable); !errors.Is(err, ErrDriverNotFound) {
		t.Errorf("无档案应返回 ErrDriverNotFound，实际: %v", err)
	}

	r.drivers.drivers["drv-1"] = &model.Driver{DriverID: "drv-1", UserID: driverAcc.ID, Status: model.DriverStatusOffDuty}

	if _, err := svc.UpdateOwnStatus(ctx, driverAcc.ID, "SLEEPING"); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("非法状态应返回 ErrInvalidStatus，实际: %v", err)
	}

	resp, err := svc.UpdateOwnStatus(ctx, driverAcc.ID, model.DriverStatusAvailable)
	if err != nil {
		t.Fatalf("更新在岗状态失败: %v", err)
	}
	if resp.Status != model.DriverStatusAvailable || r.drivers.drivers["drv-1"].Status != model.DriverStatusAvailable {
		t.Errorf("状态未更新: %+v", resp)
	}
}

func TestDriverList_FilterByStatus(t *testing.T) {
	svc, r := setupDriverService(t)
	r.drivers.drivers["drv-1"] = &model.Driver{DriverID: "drv-1", UserID: "u1", Status: model.DriverStatusAvailable}
	r.drivers.drivers["drv-2"] = &model.Driver{DriverID: "drv-2", UserID: "u2", Status: model.DriverStatusOffDuty}

	list, err := svc.List(context.Background(), &dto.DriverListRequest{Status: model.DriverStatusAvailable})
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].ID != "drv-1" {
		t.Errorf("筛选结果不正确: %+v", list)
	}
}

// ── Incident ──

func setupIncidentService(t *testing.T) (IncidentService, *testRepos) {
	t.Helper()
	r := newTestRepos()
	r.addUser(employee.ID, model.RoleEmployee)
	r.addBooking("bk-1", employee.ID, model.BookingStatusInProgress, fixedNow)
	return NewIncidentService(r.repo, zap.NewNop()), r
}

func TestIncidentReport_Rules(t *testing.T) {
	svc, r := setupIncidentService(t)
	ctx := context.Background()

	own := "bk-1"
	resp, err := svc.Report(ctx, employee, &dto.CreateIncidentRequest{BookingID: &own, Description: "  司机超速行驶  "})
	if err != nil {
		t.Fatalf("上报失败: %v", err)
	}
	if resp.Status != model.IncidentStatusPending || resp.Description != "司机超速行驶" {
		t.Errorf("上报结果不正确: %+v", resp)
	}

	if _, err := svc.Report(ctx, colleague, &dto.CreateIncidentRequest{BookingID: &own, Description: "不是我的行程"}); !errors.Is(err, ErrForbidden) {
		t.Errorf("关联他人预约应返回 ErrForbidden，实际: %v", err)
	}

	missing := "bk-x"
	if _, err := svc.Report(ctx, employee, &dto.CreateIncidentRequest{BookingID: &missing, Description: "不存在的行程"}); !errors.Is(err, ErrBookingNotFound) {
		t.Errorf("预约不存在应返回 ErrBookingNotFound，实际: %v", err)
	}

	if _, err := svc.Report(ctx, colleague, &dto.CreateIncidentRequest{Description: "办公楼门口照明不足"}); err != nil {
		t.Errorf("不关联预约也可上报: %v", err)
	}
	if len(r.incidents.incidents) != 2 {
		t.Errorf("应写入 2 条事件，实际 %d", len(r.incidents.incidents))
	}
}

func TestIncidentListAndResolve(t *testing.T) {
	svc, r := setupIncidentService(t)
	ctx := context.Background()
	r.incidents.incidents["inc-1"] = &model.Incident{IncidentID: "inc-1", ReportedBy: employee.ID, Description: "车内异味", Status: model.IncidentStatusPending}

	if _, err := svc.List(ctx, employee, &dto.IncidentListRequest{}); !errors.Is(err, ErrForbidden) {
		t.Errorf("员工不可查看全部事件，实际: %v", err)
	}
	page, err := svc.List(ctx, manager, &dto.IncidentListRequest{Status: model.IncidentStatusPending})
	if err != nil || page.Total != 1 {
		t.Fatalf("经理查看失败: %v %+v", err, page)
	}

	if _, err := svc.Resolve(ctx, "inc-1", employee); !errors.Is(err, ErrForbidden) {
		t.Errorf("员工不可处理事件，实际: %v", err)
	}
	resolved, err := svc.Resolve(ctx, "inc-1", manager)
	if err != nil {
		t.Fatalf("处理失败: %v", err)
	}
	if resolved.Status != model.IncidentStatusResolved || resolved.ResolvedBy == nil || *resolved.ResolvedBy != manager.ID {
		t.Errorf("处理结果不正确: %+v", resolved)
	}

	if _, err := svc.Resolve(ctx, "inc-1", admin); !errors.Is(err, ErrIncidentAlreadyResolved) {
		t.Errorf("重复处理应返回 ErrIncidentAlreadyResolved，实际: %v", err)
	}
	if _, err := svc.Resolve(ctx, "inc-x", admin); !errors.Is(err, ErrIncidentNotFound) {
		t.Errorf("不存在应返回 ErrIncidentNotFound，实际: %v", err)
	}
}
