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

// ── 车辆模块业务错误 ──

var (
	ErrVehicleNotFound    = errors.New("车辆不存在")
	ErrVehicleUnavailable = errors.New("车辆维修中，不可派车")
	ErrVehicleMismatch    = errors.New("车辆车型或载客量与预约不符")
	ErrPlateExists        = errors.New("车牌号已存在")
)

// VehicleService 车辆管理接口
type VehicleService interface {
	Create(ctx context.Context, req *dto.CreateVehicleRequest, callerID string) (*dto.VehicleResponse, error)
	GetByID(ctx context.Context, id string) (*dto.VehicleResponse, error)
	List(ctx context.Context, req *dto.VehicleListRequest) ([]dto.VehicleResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateVehicleRequest, callerID string) (*dto.VehicleResponse, error)
	Delete(ctx context.Context, id string, callerID string) error
}

type vehicleService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewVehicleService 创建 VehicleService 实例
func NewVehicleService(repo *repository.Repository, logger *zap.Logger) VehicleService {
	return &vehicleService{repo: repo, logger: logger}
}

func (s *vehicleService) Create(ctx context.Context, req *dto.CreateVehicleRequest, callerID string) (*dto.VehicleResponse, error) {
	v := &model.Vehicle{
		Model:        req.Model,
		LicensePlate: req.LicensePlate,
		Type:         req.Type,
		Capacity:     req.Capacity,
		Status:       model.VehicleStatusAvailable,
	}
	v.CreatedBy = &callerID
	v.UpdatedBy = &callerID

	if err := s.repo.Vehicle.Create(ctx, v); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrPlateExists
		}
		s.logger.Error("创建车辆失败", zap.String("plate", req.LicensePlate), zap.Error(err))
		return nil, unavailable(err)
	}
	return toVehicleResponse(v), nil
}

func (s *vehicleService) GetByID(ctx context.Context, id string) (*dto.VehicleResponse, error) {
	v, err := s.getVehicle(ctx, id)
	if err != nil {
		return nil, err
	}
	return toVehicleResponse(v), nil
}

func (s *vehicleService) List(ctx context.Context, req *dto.VehicleListRequest) ([]dto.VehicleResponse, error) {
	vehicles, err := s.repo.Vehicle.List(ctx, repository.VehicleFilter{Status: req.Status, Type: req.Type})
	if err != nil {
		s.logger.Error("查询车辆列表失败", zap.Error(err))
		return nil, unavailable(err)
	}

	result := make([]dto.VehicleResponse, 0, len(vehicles))
	for i := range vehicles {
		result = append(result, *toVehicleResponse(&vehicles[i]))
	}
	return result, nil
}

func (s *vehicleService) Update(ctx context.Context, id string, req *dto.UpdateVehicleRequest, callerID string) (*dto.VehicleResponse, error) {
	v, err := s.getVehicle(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Model != nil {
		v.Model = *req.Model
	}
	if req.LicensePlate != nil {
		v.LicensePlate = *req.LicensePlate
	}
	if req.Type != nil {
		v.Type = *req.Type
	}
	if req.Capacity != nil {
		v.Capacity = *req.Capacity
	}
	if req.Status != nil {
		v.Status = *req.Status
	}
	v.UpdatedBy = &callerID

	if err := s.repo.Vehicle.Update(ctx, v); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrPlateExists
		}
		s.logger.Error("更新车辆失败", zap.String("vehicle_id", id), zap.Error(err))
		return nil, unavailable(err)
	}
	return toVehicleResponse(v), nil
}

func (s *vehicleService) Delete(ctx context.Context, id string, callerID string) error {
	if _, err := s.getVehicle(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Vehicle.Delete(ctx, id, callerID); err != nil {
		s.logger.Error("删除车辆失败", zap.String("vehicle_id", id), zap.Error(err))
		return unavailable(err)
	}
	return nil
}

func (s *vehicleService) getVehicle(ctx context.Context, id string) (*model.Vehicle, error) {
	v, err := s.repo.Vehicle.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVehicleNotFound
		}
		s.logger.Error("查询车辆失败", zap.String("vehicle_id", id), zap.Error(err))
		return nil, unavailable(err)
	}
	return v, nil
}

func toVehicleResponse(v *model.Vehicle) *dto.VehicleResponse {
	return &dto.VehicleResponse{
		ID:           v.VehicleID,
		Model:        v.Model,
		LicensePlate: v.LicensePlate,
		Type:         v.Type,
		Capacity:     v.Capacity,
		Status:       v.Status,
	}
}
