package policy

import (
	"testing"

	"cab-booking/backend/internal/model"
)

func TestCan(t *testing.T) {
	tests := []struct {
		role   string
		action Action
		want   bool
	}{
		{model.RoleAdmin, BookingListAll, true},
		{model.RoleManager, BookingListAll, true},
		{model.RoleEmployee, BookingListAll, false},
		{model.RoleDriver, BookingListAll, false},

		{model.RoleAdmin, BookingUpdateStatus, true},
		{model.RoleManager, BookingUpdateStatus, true},
		{model.RoleDriver, BookingUpdateStatus, true},
		{model.RoleEmployee, BookingUpdateStatus, false},

		{model.RoleAdmin, BookingCorrectStatus, true},
		{model.RoleManager, BookingCorrectStatus, false},

		{model.RoleAdmin, StatsDashboard, true},
		{model.RoleManager, StatsDashboard, false},

		{model.RoleEmployee, BookingCreate, true},
		{model.RoleEmployee, IncidentReport, true},
		{model.RoleEmployee, IncidentResolve, false},

		{"GUEST", BookingCreate, false},
		{"", BookingCreate, false},
	}

	for _, tt := range tests {
		if got := Can(tt.role, tt.action); got != tt.want {
			t.Errorf("Can(%q, %s) = %v，期望 %v", tt.role, tt.action, got, tt.want)
		}
	}
}

func TestOwnerOr(t *testing.T) {
	owner := Caller{ID: "u1", Role: model.RoleEmployee}
	other := Caller{ID: "u2", Role: model.RoleEmployee}
	manager := Caller{ID: "m1", Role: model.RoleManager}

	if !OwnerOr(owner, "u1", BookingViewAny) {
		t.Error("所有者应允许访问")
	}
	if OwnerOr(other, "u1", BookingViewAny) {
		t.Error("非所有者的普通员工不应允许访问")
	}
	if !OwnerOr(manager, "u1", BookingViewAny) {
		t.Error("经理应允许访问任意预约")
	}
	if OwnerOr(Caller{Role: model.RoleEmployee}, "", BookingViewAny) {
		t.Error("空 ID 不应视为所有者")
	}
}
