package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"

	"cab-booking/backend/internal/model"
	"cab-booking/backend/internal/repository"
	pkgerrors "cab-booking/backend/pkg/errors"
)

// ── Mock LocationRepository ──

type mockLocationRepo struct {
	locations map[string]*model.Location
	seq       int
}

func newMockLocationRepo() *mockLocationRepo {
	return &mockLocationRepo{locations: make(map[string]*model.Location)}
}

func (m *mockLocationRepo) Create(_ context.Context, loc *model.Location) error {
	if loc.LocationID == "" {
		m.seq++
		loc.LocationID = fmt.Sprintf("loc-%d", m.seq)
	}
	m.locations[loc.LocationID] = loc
	return nil
}

func (m *mockLocationRepo) GetByID(_ context.Context, id string) (*model.Location, error) {
	if l, ok := m.locations[id]; ok {
		return l, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockLocationRepo) List(_ context.Context, includeInactive bool) ([]model.Location, error) {
	var result []model.Location
	for _, l := range m.locations {
		if l.IsActive || includeInactive {
			result = append(result, *l)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *mockLocationRepo) Update(_ context.Context, loc *model.Location) error {
	m.locations[loc.LocationID] = loc
	return nil
}

func (m *mockLocationRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.locations, id)
	return nil
}

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
	seq   int
	err   error // 非 nil 时所有读操作返回该错误
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		m.seq++
		user.UserID = fmt.Sprintf("user-%d", m.seq)
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) List(_ context.Context, filter repository.UserFilter, offset, limit int) ([]model.User, int64, error) {
	if m.err != nil {
		return nil, 0, m.err
	}
	var all []model.User
	for _, u := range m.users {
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		if filter.Department != "" && u.Department != filter.Department {
			continue
		}
		if filter.Search != "" {
			kw := strings.ToLower(filter.Search)
			if !strings.Contains(strings.ToLower(u.FullName()), kw) && !strings.Contains(strings.ToLower(u.Email), kw) {
				continue
			}
		}
		all = append(all, *u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].UserID < all[j].UserID })

	total := int64(len(all))
	if offset > len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockUserRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.users, id)
	return nil
}

func (m *mockUserRepo) TouchLastLogin(_ context.Context, id string, at time.Time) error {
	if u, ok := m.users[id]; ok {
		u.LastLoginAt = &at
	}
	return nil
}

// ── Mock BookingRepository ──

type mockBookingRepo struct {
	mu       sync.Mutex
	bookings map[string]*model.Booking
	seq      int
	err      error

	// 关联填充来源
	users     *mockUserRepo
	locations *mockLocationRepo
	drivers   *mockDriverRepo
	vehicles  *mockVehicleRepo

	// beforeUpdateStatus 在条件写入前调用，用于模拟并发修改
	beforeUpdateStatus func(b *model.Booking)
}

func newMockBookingRepo() *mockBookingRepo {
	return &mockBookingRepo{bookings: make(map[string]*model.Booking)}
}

func (m *mockBookingRepo) Create(_ context.Context, b *model.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if b.BookingID == "" {
		m.seq++
		b.BookingID = fmt.Sprintf("bk-%d", m.seq)
	}
	now := time.Now()
	b.CreatedAt = now
	b.UpdatedAt = now
	stored := *b
	m.bookings[b.BookingID] = &stored
	return nil
}

// GetByID 返回副本并填充关联，避免调用方修改影响存储
func (m *mockBookingRepo) GetByID(_ context.Context, id string) (*model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	b, ok := m.bookings[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return m.withAssociations(b), nil
}

func (m *mockBookingRepo) List(_ context.Context, filter repository.BookingFilter, offset, limit int) ([]model.Booking, int64, error) {
	all, err := m.ListAll(context.TODO(), filter)
	if err != nil {
		return nil, 0, err
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ScheduledTime.After(all[j].ScheduledTime) })

	total := int64(len(all))
	if offset > len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockBookingRepo) ListAll(_ context.Context, filter repository.BookingFilter) ([]model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	var result []model.Booking
	for _, b := range m.bookings {
		if filter.Status != "" && b.Status != filter.Status {
			continue
		}
		if filter.UserID != "" && b.UserID != filter.UserID {
			continue
		}
		if filter.From != nil && b.ScheduledTime.Before(*filter.From) {
			continue
		}
		if filter.To != nil && !b.ScheduledTime.Before(*filter.To) {
			continue
		}
		result = append(result, *m.withAssociations(b))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ScheduledTime.Before(result[j].ScheduledTime) })
	return result, nil
}

func (m *mockBookingRepo) ListByUser(_ context.Context, userID string) ([]model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	var result []model.Booking
	for _, b := range m.bookings {
		if b.UserID == userID {
			result = append(result, *m.withAssociations(b))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (m *mockBookingRepo) UpdateDetails(_ context.Context, b *model.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.bookings[b.BookingID]
	if !ok || stored.Status != model.BookingStatusPending {
		return pkgerrors.ErrOptimisticLock
	}
	stored.PickupID = b.PickupID
	stored.DropID = b.DropID
	stored.ScheduledTime = b.ScheduledTime
	stored.VehicleType = b.VehicleType
	stored.PassengerCount = b.PassengerCount
	stored.Notes = b.Notes
	stored.Fare = b.Fare
	stored.UpdatedAt = time.Now()
	return nil
}

func (m *mockBookingRepo) UpdateStatus(_ context.Context, id, from, to string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.bookings[id]
	if !ok {
		return pkgerrors.ErrOptimisticLock
	}
	if m.beforeUpdateStatus != nil {
		hook := m.beforeUpdateStatus
		m.beforeUpdateStatus = nil
		hook(stored)
	}
	if stored.Status != from {
		return pkgerrors.ErrOptimisticLock
	}
	stored.Status = to
	stored.UpdatedAt = time.Now()
	return nil
}

func (m *mockBookingRepo) Assign(_ context.Context, id, driverID, vehicleID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.bookings[id]
	if !ok || stored.Status != model.BookingStatusApproved {
		return pkgerrors.ErrOptimisticLock
	}
	stored.DriverID = &driverID
	stored.VehicleID = &vehicleID
	return nil
}

func (m *mockBookingRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.bookings, id)
	return nil
}

func (m *mockBookingRepo) CountByUser(_ context.Context, userID string, now time.Time) (*repository.BookingCounts, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	counts := &repository.BookingCounts{}
	for _, b := range m.bookings {
		if b.UserID != userID {
			continue
		}
		counts.Total++
		if b.Status == model.BookingStatusPending {
			counts.Pending++
		}
		if b.Status == model.BookingStatusApproved && b.ScheduledTime.After(now) {
			counts.Upcoming++
		}
	}
	return counts, nil
}

func (m *mockBookingRepo) withAssociations(b *model.Booking) *model.Booking {
	cp := *b
	if m.users != nil {
		cp.User = m.users.users[b.UserID]
	}
	if m.locations != nil {
		cp.Pickup = m.locations.locations[b.PickupID]
		cp.Drop = m.locations.locations[b.DropID]
	}
	if m.drivers != nil && b.DriverID != nil {
		cp.Driver = m.drivers.drivers[*b.DriverID]
	}
	if m.vehicles != nil && b.VehicleID != nil {
		cp.Vehicle = m.vehicles.vehicles[*b.VehicleID]
	}
	return &cp
}

// ── Mock DriverRepository ──

type mockDriverRepo struct {
	drivers map[string]*model.Driver
	seq     int
}

func newMockDriverRepo() *mockDriverRepo {
	return &mockDriverRepo{drivers: make(map[string]*model.Driver)}
}

func (m *mockDriverRepo) Create(_ context.Context, d *model.Driver) error {
	if d.DriverID == "" {
		m.seq++
		d.DriverID = fmt.Sprintf("drv-%d", m.seq)
	}
	m.drivers[d.DriverID] = d
	return nil
}

func (m *mockDriverRepo) GetByID(_ context.Context, id string) (*model.Driver, error) {
	if d, ok := m.drivers[id]; ok {
		return d, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDriverRepo) GetByUserID(_ context.Context, userID string) (*model.Driver, error) {
	for _, d := range m.drivers {
		if d.UserID == userID {
			return d, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDriverRepo) List(_ context.Context, status string) ([]model.Driver, error) {
	var result []model.Driver
	for _, d := range m.drivers {
		if status == "" || d.Status == status {
			result = append(result, *d)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].DriverID < result[j].DriverID })
	return result, nil
}

func (m *mockDriverRepo) Update(_ context.Context, d *model.Driver) error {
	m.drivers[d.DriverID] = d
	return nil
}

func (m *mockDriverRepo) UpdateStatus(_ context.Context, id, status string) error {
	d, ok := m.drivers[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	d.Status = status
	return nil
}

func (m *mockDriverRepo) TransitionStatus(_ context.Context, id, from, to string) error {
	if d, ok := m.drivers[id]; ok && d.Status == from {
		d.Status = to
	}
	return nil
}

func (m *mockDriverRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.drivers, id)
	return nil
}

// ── Mock VehicleRepository ──

type mockVehicleRepo struct {
	vehicles map[string]*model.Vehicle
	seq      int
}

func newMockVehicleRepo() *mockVehicleRepo {
	return &mockVehicleRepo{vehicles: make(map[string]*model.Vehicle)}
}

func (m *mockVehicleRepo) Create(_ context.Context, v *model.Vehicle) error {
	for _, existing := range m.vehicles {
		if existing.LicensePlate == v.LicensePlate {
			return gorm.ErrDuplicatedKey
		}
	}
	if v.VehicleID == "" {
		m.seq++
		v.VehicleID = fmt.Sprintf("veh-%d", m.seq)
	}
	m.vehicles[v.VehicleID] = v
	return nil
}

func (m *mockVehicleRepo) GetByID(_ context.Context, id string) (*model.Vehicle, error) {
	if v, ok := m.vehicles[id]; ok {
		return v, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockVehicleRepo) List(_ context.Context, filter repository.VehicleFilter) ([]model.Vehicle, error) {
	var result []model.Vehicle
	for _, v := range m.vehicles {
		if filter.Status != "" && v.Status != filter.Status {
			continue
		}
		if filter.Type != "" && v.Type != filter.Type {
			continue
		}
		result = append(result, *v)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].VehicleID < result[j].VehicleID })
	return result, nil
}

func (m *mockVehicleRepo) Update(_ context.Context, v *model.Vehicle) error {
	m.vehicles[v.VehicleID] = v
	return nil
}

func (m *mockVehicleRepo) TransitionStatus(_ context.Context, id, from, to string) error {
	if v, ok := m.vehicles[id]; ok && v.Status == from {
		v.Status = to
	}
	return nil
}

func (m *mockVehicleRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.vehicles, id)
	return nil
}

// ── Mock IncidentRepository ──

type mockIncidentRepo struct {
	incidents map[string]*model.Incident
	seq       int
}

func newMockIncidentRepo() *mockIncidentRepo {
	return &mockIncidentRepo{incidents: make(map[string]*model.Incident)}
}

func (m *mockIncidentRepo) Create(_ context.Context, inc *model.Incident) error {
	if inc.IncidentID == "" {
		m.seq++
		inc.IncidentID = fmt.Sprintf("inc-%d", m.seq)
	}
	inc.CreatedAt = time.Now()
	m.incidents[inc.IncidentID] = inc
	return nil
}

func (m *mockIncidentRepo) GetByID(_ context.Context, id string) (*model.Incident, error) {
	if inc, ok := m.incidents[id]; ok {
		cp := *inc
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockIncidentRepo) List(_ context.Context, status string, offset, limit int) ([]model.Incident, int64, error) {
	var all []model.Incident
	for _, inc := range m.incidents {
		if status == "" || inc.Status == status {
			all = append(all, *inc)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].IncidentID < all[j].IncidentID })

	total := int64(len(all))
	if offset > len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockIncidentRepo) Resolve(_ context.Context, id, resolvedBy string, at time.Time) error {
	inc, ok := m.incidents[id]
	if !ok || inc.Status != model.IncidentStatusPending {
		return pkgerrors.ErrOptimisticLock
	}
	inc.Status = model.IncidentStatusResolved
	inc.ResolvedBy = &resolvedBy
	inc.ResolvedAt = &at
	return nil
}

// ── Mock StatsRepository ──

type mockStatsRepo struct {
	users     repository.UserCounts
	drivers   repository.DriverCounts
	byStatus  map[string]int64
	incidents repository.IncidentCounts
	revenue   repository.RevenueSums
	daily     []repository.DailyValue

	err error // 非 nil 时 CountIncidents 返回该错误

	// 记录最近一次趋势查询参数
	trendFrom, trendTo time.Time
	trendTZ            string

	// 记录最近一次营收查询的月份边界
	revenueBounds [3]time.Time
}

func (m *mockStatsRepo) CountUsers(_ context.Context, _, _ time.Time) (*repository.UserCounts, error) {
	c := m.users
	return &c, nil
}

func (m *mockStatsRepo) CountDrivers(_ context.Context) (*repository.DriverCounts, error) {
	c := m.drivers
	return &c, nil
}

func (m *mockStatsRepo) CountBookingsByStatus(_ context.Context) (map[string]int64, error) {
	result := make(map[string]int64, len(m.byStatus))
	for k, v := range m.byStatus {
		result[k] = v
	}
	return result, nil
}

func (m *mockStatsRepo) CountIncidents(_ context.Context) (*repository.IncidentCounts, error) {
	if m.err != nil {
		return nil, m.err
	}
	c := m.incidents
	return &c, nil
}

func (m *mockStatsRepo) SumRevenue(_ context.Context, lastMonthStart, thisMonthStart, nextMonthStart time.Time) (*repository.RevenueSums, error) {
	m.revenueBounds = [3]time.Time{lastMonthStart, thisMonthStart, nextMonthStart}
	r := m.revenue
	return &r, nil
}

func (m *mockStatsRepo) DailyBookings(_ context.Context, from, to time.Time, tz string) ([]repository.DailyValue, error) {
	m.trendFrom, m.trendTo, m.trendTZ = from, to, tz
	return m.daily, nil
}

func (m *mockStatsRepo) DailyRevenue(_ context.Context, _, _ time.Time, _ string) ([]repository.DailyValue, error) {
	return nil, nil
}

func (m *mockStatsRepo) DailyIncidents(_ context.Context, _, _ time.Time, _ string) ([]repository.DailyValue, error) {
	return nil, nil
}

// ── 测试辅助 ──

// testRepos 由内存实现组装的 Repository 聚合
type testRepos struct {
	repo      *repository.Repository
	locations *mockLocationRepo
	users     *mockUserRepo
	bookings  *mockBookingRepo
	drivers   *mockDriverRepo
	vehicles  *mockVehicleRepo
	incidents *mockIncidentRepo
	stats     *mockStatsRepo
}

func newTestRepos() *testRepos {
	r := &testRepos{
		locations: newMockLocationRepo(),
		users:     newMockUserRepo(),
		bookings:  newMockBookingRepo(),
		drivers:   newMockDriverRepo(),
		vehicles:  newMockVehicleRepo(),
		incidents: newMockIncidentRepo(),
		stats:     &mockStatsRepo{},
	}
	r.bookings.users = r.users
	r.bookings.locations = r.locations
	r.bookings.drivers = r.drivers
	r.bookings.vehicles = r.vehicles

	r.repo = &repository.Repository{
		Location: r.locations,
		User:     r.users,
		Booking:  r.bookings,
		Driver:   r.drivers,
		Vehicle:  r.vehicles,
		Incident: r.incidents,
		Stats:    r.stats,
	}
	return r
}

func (r *testRepos) addLocation(id, name string, distance float64) *model.Location {
	loc := &model.Location{
		LocationID:         id,
		Name:               name,
		Address:            name + " 路 1 号",
		DistanceFromOffice: distance,
		IsActive:           true,
	}
	r.locations.locations[id] = loc
	return loc
}

func (r *testRepos) addUser(id, role string) *model.User {
	u := &model.User{
		UserID:     id,
		Email:      id + "@example.com",
		FirstName:  "Test",
		LastName:   id,
		Role:       role,
		Gender:     model.GenderOther,
		Department: "Engineering",
	}
	r.users.users[id] = u
	return u
}

// addBooking 直接写入存储，绕过业务校验
func (r *testRepos) addBooking(id, userID, status string, scheduled time.Time) *model.Booking {
	b := &model.Booking{
		BookingID:      id,
		UserID:         userID,
		PickupID:       "loc-office",
		DropID:         "loc-far",
		ScheduledTime:  scheduled,
		VehicleType:    model.VehicleTypeSedan,
		PassengerCount: 2,
		Status:         status,
		Fare:           1010,
		CreatedAt:      time.Now(),
	}
	r.bookings.bookings[id] = b
	return b
}
