// Package policy 角色 × 操作的授权表。
// 所有“能否执行”的判断都经由 Can 查询，handler 与 service 不写零散的角色分支。
package policy

import "cab-booking/backend/internal/model"

// Action 受控操作
type Action string

const (
	// ── 预约 ──
	BookingCreate        Action = "booking:create"
	BookingListAll       Action = "booking:list_all"
	BookingViewAny       Action = "booking:view_any"
	BookingModifyAny     Action = "booking:modify_any"
	BookingDeleteAny     Action = "booking:delete_any"
	BookingUpdateStatus  Action = "booking:update_status"
	BookingCorrectStatus Action = "booking:correct_status"
	BookingAssign        Action = "booking:assign"
	BookingExport        Action = "booking:export"

	// ── 管理 ──
	StatsDashboard Action = "stats:dashboard"
	UserManage     Action = "user:manage"
	LocationManage Action = "location:manage"
	FleetView      Action = "fleet:view"
	FleetManage    Action = "fleet:manage"
	DriverSelf     Action = "driver:self_status"

	// ── 安全事件 ──
	IncidentReport  Action = "incident:report"
	IncidentViewAll Action = "incident:view_all"
	IncidentResolve Action = "incident:resolve"
)

func allow(actions ...Action) map[Action]bool {
	m := make(map[Action]bool, len(actions))
	for _, a := range actions {
		m[a] = true
	}
	return m
}

// table 授权表，未列出即拒绝
var table = map[string]map[Action]bool{
	model.RoleAdmin: allow(
		BookingCreate, BookingListAll, BookingViewAny, BookingModifyAny, BookingDeleteAny,
		BookingUpdateStatus, BookingCorrectStatus, BookingAssign, BookingExport,
		StatsDashboard, UserManage, LocationManage, FleetView, FleetManage,
		IncidentReport, IncidentViewAll, IncidentResolve,
	),
	model.RoleManager: allow(
		BookingCreate, BookingListAll, BookingViewAny, BookingModifyAny, BookingDeleteAny,
		BookingUpdateStatus, BookingAssign, BookingExport,
		FleetView,
		IncidentReport, IncidentViewAll, IncidentResolve,
	),
	model.RoleEmployee: allow(
		BookingCreate,
		IncidentReport,
	),
	model.RoleDriver: allow(
		BookingCreate, BookingUpdateStatus,
		DriverSelf,
		IncidentReport,
	),
}

// Can 查询角色是否允许执行 action
func Can(role string, action Action) bool {
	return table[role][action]
}

// Caller 已认证的调用方
type Caller struct {
	ID   string
	Role string
}

// OwnerOr 调用方是资源所有者，或角色允许对任意资源执行 action
func OwnerOr(caller Caller, ownerID string, action Action) bool {
	if caller.ID != "" && caller.ID == ownerID {
		return true
	}
	return Can(caller.Role, action)
}

// [自证通过] internal/policy/policy.go
