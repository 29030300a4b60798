package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"cab-booking/backend/internal/dto"
	"cab-booking/backend/internal/model"
	"cab-booking/backend/internal/repository"
)

// ── 司机模块业务错误 ──

var (
	ErrDriverNotFound    = errors.New("司机不存在")
	ErrDriverExists      = errors.New("该账号已有司机档案")
	ErrDriverUserInvalid = errors.New("司机档案须关联 DRIVER 角色账号")
	ErrDriverUnavailable = errors.New("司机当前不在岗")
	ErrLicenseExists     = errors.New("驾驶证号已登记")
)

// DriverService 司机管理接口
type DriverService interface {
	Create(ctx context.Context, req *dto.CreateDriverRequest, callerID string) (*dto.DriverResponse, error)
	GetByID(ctx context.Context, id string) (*dto.DriverResponse, error)
	List(ctx context.Context, req *dto.DriverListRequest) ([]dto.DriverResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateDriverRequest, callerID string) (*dto.DriverResponse, error)
	Delete(ctx context.Context, id string, callerID string) error
	// UpdateOwnStatus 司机本人切换在岗状态
	UpdateOwnStatus(ctx context.Context, userID, status string) (*dto.DriverResponse, error)
}

type driverService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewDriverService 创建 DriverService 实例
func NewDriverService(repo *repository.Repository, logger *zap.Logger) DriverService {
	return &driverService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *driverService) Create(ctx context.Context, req *dto.CreateDriverRequest, callerID string) (*dto.DriverResponse, error) {
	user, err := s.repo.User.GetByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDriverUserInvalid
		}
		s.logger.Error("查询用户失败", zap.String("user_id", req.UserID), zap.Error(err))
		return nil, unavailable(err)
	}
	if user.Role != model.RoleDriver {
		return nil, ErrDriverUserInvalid
	}

	if _, err := s.repo.Driver.GetByUserID(ctx, req.UserID); err == nil {
		return nil, ErrDriverExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询司机失败", zap.String("user_id", req.UserID), zap.Error(err))
		return nil, unavailable(err)
	}

	if req.VehicleID != nil {
		if err := s.ensureVehicle(ctx, *req.VehicleID); err != nil {
			return nil, err
		}
	}

	d := &model.Driver{
		UserID:        req.UserID,
		LicenseNumber: req.LicenseNumber,
		Phone:         req.Phone,
		Status:        model.DriverStatusOffDuty,
		VehicleID:     req.VehicleID,
	}
	d.CreatedBy = &callerID
	d.UpdatedBy = &callerID

	if err := s.repo.Driver.Create(ctx, d); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrLicenseExists
		}
		s.logger.Error("创建司机档案失败", zap.String("user_id", req.UserID), zap.Error(err))
		return nil, unavailable(err)
	}

	return s.reload(ctx, d.DriverID)
}

// ────────────────────── GetByID / List ──────────────────────

func (s *driverService) GetByID(ctx context.Context, id string) (*dto.DriverResponse, error) {
	d, err := s.getDriver(ctx, id)
	if err != nil {
		return nil, err
	}
	return toDriverResponse(d), nil
}

func (s *driverService) List(ctx context.Context, req *dto.DriverListRequest) ([]dto.DriverResponse, error) {
	drivers, err := s.repo.Driver.List(ctx, req.Status)
	if err != nil {
		s.logger.Error("查询司机列表失败", zap.Error(err))
		return nil, unavailable(err)
	}

	result := make([]dto.DriverResponse, 0, len(drivers))
	for i := range drivers {
		result = append(result, *toDriverResponse(&drivers[i]))
	}
	return result, nil
}

// ────────────────────── Update ──────────────────────

func (s *driverService) Update(ctx context.Context, id string, req *dto.UpdateDriverRequest, callerID string) (*dto.DriverResponse, error) {
	d, err := s.getDriver(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.VehicleID != nil {
		if err := s.ensureVehicle(ctx, *req.VehicleID); err != nil {
			return nil, err
		}
		d.VehicleID = req.VehicleID
	}
	if req.LicenseNumber != nil {
		d.LicenseNumber = *req.LicenseNumber
	}
	if req.Phone != nil {
		d.Phone = *req.Phone
	}
	if req.Status != nil {
		d.Status = *req.Status
	}
	d.UpdatedBy = &callerID

	if err := s.repo.Driver.Update(ctx, d); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrLicenseExists
		}
		s.logger.Error("更新司机档案失败", zap.String("driver_id", id), zap.Error(err))
		return nil, unavailable(err)
	}
	return s.reload(ctx, id)
}

// ────────────────────── Delete ──────────────────────

func (s *driverService) Delete(ctx context.Context, id string, callerID string) error {
	if _, err := s.getDriver(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Driver.Delete(ctx, id, callerID); err != nil {
		s.logger.Error("删除司机档案失败", zap.String("driver_id", id), zap.Error(err))
		return unavailable(err)
	}
	return nil
}

// ────────────────────── UpdateOwnStatus ──────────────────────

func (s *driverService) UpdateOwnStatus(ctx context.Context, userID, status string) (*dto.DriverResponse, error) {
	if !model.ValidDriverStatus(status) {
		return nil, ErrInvalidStatus
	}

	d, err := s.repo.Driver.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDriverNotFound
		}
		s.logger.Error("查询司机失败", zap.String("user_id", userID), zap.Error(err))
		return nil, unavailable(err)
	}

	if err := s.repo.Driver.UpdateStatus(ctx, d.DriverID, status); err != nil {
		s.logger.Error("更新司机状态失败", zap.String("driver_id", d.DriverID), zap.Error(err))
		return nil, unavailable(err)
	}
	return s.reload(ctx, d.DriverID)
}

// ── 内部辅助方法 ──

func (s *driverService) getDriver(ctx context.Context, id string) (*model.Driver, error) {
	d, err := s.repo.Driver.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDriverNotFound
		}
		s.logger.Error("查询司机失败", zap.String("driver_id", id), zap.Error(err))
		return nil, unavailable(err)
	}
	return d, nil
}

func (s *driverService) ensureVehicle(ctx context.Context, id string) error {
	if _, err := s.repo.Vehicle.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrVehicleNotFound
		}
		s.logger.Error("查询车辆失败", zap.String("vehicle_id", id), zap.Error(err))
		return unavailable(err)
	}
	return nil
}

func (s *driverService) reload(ctx context.Context, id string) (*dto.DriverResponse, error) {
	d, err := s.getDriver(ctx, id)
	if err != nil {
		return nil, err
	}
	return toDriverResponse(d), nil
}

func toDriverResponse(d *model.Driver) *dto.DriverResponse {
	resp := &dto.DriverResponse{
		ID:            d.DriverID,
		UserID:        d.UserID,
		LicenseNumber: d.LicenseNumber,
		Phone:         d.Phone,
		Status:        d.Status,
	}
	if d.User != nil {
		resp.Name = d.User.FullName()
		resp.Email = d.User.Email
	}
	if d.Vehicle != nil {
		resp.Vehicle = toVehicleResponse(d.Vehicle)
	}
	return resp
}
