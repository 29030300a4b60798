package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"cab-booking/backend/internal/dto"
	"cab-booking/backend/internal/model"
	"cab-booking/backend/internal/policy"
	"cab-booking/backend/internal/repository"
	pkgerrors "cab-booking/backend/pkg/errors"
)

// ── 安全事件业务错误 ──

var (
	ErrIncidentNotFound        = errors.New("安全事件不存在")
	ErrIncidentAlreadyResolved = errors.New("安全事件已处理")
)

// IncidentService 安全事件接口
type IncidentService interface {
	Report(ctx context.Context, caller policy.Caller, req *dto.CreateIncidentRequest) (*dto.IncidentResponse, error)
	List(ctx context.Context, caller policy.Caller, req *dto.IncidentListRequest) (*dto.PageResult[dto.IncidentResponse], error)
	Resolve(ctx context.Context, id string, caller policy.Caller) (*dto.IncidentResponse, error)
}

type incidentService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewIncidentService 创建 IncidentService 实例
func NewIncidentService(repo *repository.Repository, logger *zap.Logger) IncidentService {
	return &incidentService{repo: repo, logger: logger}
}

// Report 任何已登录用户可上报；关联预约时须为本人预约或具备查看任意预约的权限
func (s *incidentService) Report(ctx context.Context, caller policy.Caller, req *dto.CreateIncidentRequest) (*dto.IncidentResponse, error) {
	if !policy.Can(caller.Role, policy.IncidentReport) {
		return nil, ErrForbidden
	}

	if req.BookingID != nil {
		booking, err := s.repo.Booking.GetByID(ctx, *req.BookingID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrBookingNotFound
			}
			s.logger.Error("查询预约失败", zap.String("booking_id", *req.BookingID), zap.Error(err))
			return nil, unavailable(err)
		}
		if !policy.OwnerOr(caller, booking.UserID, policy.BookingViewAny) {
			return nil, ErrForbidden
		}
	}

	inc := &model.Incident{
		BookingID:   req.BookingID,
		ReportedBy:  caller.ID,
		Description: strings.TrimSpace(req.Description),
		Status:      model.IncidentStatusPending,
	}
	if err := s.repo.Incident.Create(ctx, inc); err != nil {
		s.logger.Error("上报安全事件失败", zap.String("user_id", caller.ID), zap.Error(err))
		return nil, unavailable(err)
	}

	s.logger.Warn("收到安全事件上报",
		zap.String("incident_id", inc.IncidentID),
		zap.String("reported_by", caller.ID),
	)
	return toIncidentResponse(inc), nil
}

func (s *incidentService) List(ctx context.Context, caller policy.Caller, req *dto.IncidentListRequest) (*dto.PageResult[dto.IncidentResponse], error) {
	if !policy.Can(caller.Role, policy.IncidentViewAll) {
		return nil, ErrForbidden
	}

	incidents, total, err := s.repo.Incident.List(ctx, req.Status, req.GetOffset(), req.GetLimit())
	if err != nil {
		s.logger.Error("查询安全事件失败", zap.Error(err))
		return nil, unavailable(err)
	}

	list := make([]dto.IncidentResponse, 0, len(incidents))
	for i := range incidents {
		list = append(list, *toIncidentResponse(&incidents[i]))
	}
	return &dto.PageResult[dto.IncidentResponse]{
		List:  list,
		Total: total,
		Page:  req.GetPage(),
		Limit: req.GetLimit(),
	}, nil
}

func (s *incidentService) Resolve(ctx context.Context, id string, caller policy.Caller) (*dto.IncidentResponse, error) {
	if !policy.Can(caller.Role, policy.IncidentResolve) {
		return nil, ErrForbidden
	}

	inc, err := s.getIncident(ctx, id)
	if err != nil {
		return nil, err
	}
	if inc.Status == model.IncidentStatusResolved {
		return nil, ErrIncidentAlreadyResolved
	}

	if err := s.repo.Incident.Resolve(ctx, id, caller.ID, time.Now()); err != nil {
		if errors.Is(err, pkgerrors.ErrOptimisticLock) {
			return nil, ErrIncidentAlreadyResolved
		}
		s.logger.Error("处理安全事件失败", zap.String("incident_id", id), zap.Error(err))
		return nil, unavailable(err)
	}

	inc, err = s.getIncident(ctx, id)
	if err != nil {
		return nil, err
	}
	return toIncidentResponse(inc), nil
}

func (s *incidentService) getIncident(ctx context.Context, id string) (*model.Incident, error) {
	inc, err := s.repo.Incident.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIncidentNotFound
		}
		s.logger.Error("查询安全事件失败", zap.String("incident_id", id), zap.Error(err))
		return nil, unavailable(err)
	}
	return inc, nil
}

func toIncidentResponse(inc *model.Incident) *dto.IncidentResponse {
	resp := &dto.IncidentResponse{
		ID:          inc.IncidentID,
		BookingID:   inc.BookingID,
		Description: inc.Description,
		Status:      inc.Status,
		ResolvedBy:  inc.ResolvedBy,
		CreatedAt:   formatTime(inc.CreatedAt, time.UTC),
	}
	if inc.ResolvedAt != nil {
		resp.ResolvedAt = formatTime(*inc.ResolvedAt, time.UTC)
	}
	if inc.Reporter != nil {
		resp.Reporter = &dto.UserSummary{
			ID:         inc.Reporter.UserID,
			Name:       inc.Reporter.FullName(),
			Email:      inc.Reporter.Email,
			Department: inc.Reporter.Department,
		}
	}
	return resp
}
