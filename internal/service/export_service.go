package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"cab-booking/backend/internal/model"
	"cab-booking/backend/internal/policy"
	"cab-booking/backend/internal/repository"
)

// exportDateLayout 导出筛选日期格式
const exportDateLayout = "2006-01-02"

// ── 导出模块业务错误 ──

var (
	ErrInvalidDateRange   = errors.New("日期格式应为 YYYY-MM-DD 且起始不晚于结束")
	ErrExportGenerateFail = errors.New("生成 Excel 文件失败")
)

// ExportService 导出业务接口
//
// 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response。
type ExportService interface {
	// ExportBookings 按状态与乘车日期区间导出预约明细，附带汇总 Sheet
	ExportBookings(ctx context.Context, caller policy.Caller, status, from, to string) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	loc    *time.Location
	now    func() time.Time
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, loc *time.Location, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, loc: loc, now: time.Now, logger: logger}
}

var exportHeaders = []string{
	"预约编号", "员工", "邮箱", "部门", "上车点", "下车点",
	"乘车时间", "车型", "人数", "状态", "车费", "车牌", "创建时间",
}

// ═══════════════════════════════════════════════════════════
// ExportBookings — 导出预约为 Excel
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - Sheet "预约"：每行一条预约，按乘车时间升序
//   - Sheet "汇总"：各状态数量与已完成订单车费合计
//
// 返回值：buf（Excel 内容）, filename（建议文件名）, error

func (s *exportService) ExportBookings(ctx context.Context, caller policy.Caller, status, from, to string) (*bytes.Buffer, string, error) {
	if !policy.Can(caller.Role, policy.BookingExport) {
		return nil, "", ErrForbidden
	}
	if status != "" && !model.ValidBookingStatus(status) {
		return nil, "", ErrInvalidStatus
	}

	filter := repository.BookingFilter{Status: status}
	if from != "" {
		t, err := time.ParseInLocation(exportDateLayout, from, s.loc)
		if err != nil {
			return nil, "", ErrInvalidDateRange
		}
		filter.From = &t
	}
	if to != "" {
		t, err := time.ParseInLocation(exportDateLayout, to, s.loc)
		if err != nil {
			return nil, "", ErrInvalidDateRange
		}
		// 结束日期按整天包含
		end := t.AddDate(0, 0, 1)
		filter.To = &end
	}
	if filter.From != nil && filter.To != nil && !filter.From.Before(*filter.To) {
		return nil, "", ErrInvalidDateRange
	}

	bookings, err := s.repo.Booking.ListAll(ctx, filter)
	if err != nil {
		s.logger.Error("查询导出预约失败", zap.Error(err))
		return nil, "", unavailable(err)
	}

	buf, err := s.render(bookings)
	if err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	s.logger.Info("预约导出完成",
		zap.String("operator", caller.ID),
		zap.Int("rows", len(bookings)),
	)

	filename := fmt.Sprintf("bookings_%s.xlsx", s.now().In(s.loc).Format("20060102"))
	return buf, filename, nil
}

func (s *exportService) render(bookings []model.Booking) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "预约"
	idx, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(idx)
	// 删除默认 Sheet1
	f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	for i, h := range exportHeaders {
		f.SetCellValue(sheetName, cell(colName(i), 1), h)
		f.SetColWidth(sheetName, colName(i), colName(i), 16)
	}
	f.SetCellStyle(sheetName, "A1", cell(colName(len(exportHeaders)-1), 1), headerStyle)
	f.SetColWidth(sheetName, "A", "A", 38)

	counts := make(map[string]int, len(model.BookingStatuses))
	completedFare := 0

	row := 2
	for i := range bookings {
		b := &bookings[i]
		counts[b.Status]++
		if b.Status == model.BookingStatusCompleted {
			completedFare += b.Fare
		}

		values := []interface{}{
			b.BookingID, "", "", "", "", "",
			b.ScheduledTime.In(s.loc).Format(ScheduleLayout),
			b.VehicleType, b.PassengerCount, b.Status, b.Fare, "",
			b.CreatedAt.In(s.loc).Format(ScheduleLayout),
		}
		if b.User != nil {
			values[1] = b.User.FullName()
			values[2] = b.User.Email
			values[3] = b.User.Department
		}
		if b.Pickup != nil {
			values[4] = b.Pickup.Name
		}
		if b.Drop != nil {
			values[5] = b.Drop.Name
		}
		if b.Vehicle != nil {
			values[11] = b.Vehicle.LicensePlate
		}

		if err := f.SetSheetRow(sheetName, cell("A", row), &values); err != nil {
			return nil, err
		}
		row++
	}

	// 汇总
	summary := "汇总"
	if _, err := f.NewSheet(summary); err != nil {
		return nil, err
	}
	f.SetColWidth(summary, "A", "B", 18)
	f.SetCellValue(summary, "A1", "状态")
	f.SetCellValue(summary, "B1", "数量")
	f.SetCellStyle(summary, "A1", "B1", headerStyle)
	row = 2
	for _, st := range model.BookingStatuses {
		f.SetCellValue(summary, cell("A", row), st)
		f.SetCellValue(summary, cell("B", row), counts[st])
		row++
	}
	f.SetCellValue(summary, cell("A", row), "合计")
	f.SetCellValue(summary, cell("B", row), len(bookings))
	f.SetCellValue(summary, cell("A", row+1), "已完成车费")
	f.SetCellValue(summary, cell("B", row+1), completedFare)

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// ── 辅助函数 ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
