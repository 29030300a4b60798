package service

import (
	"errors"
	"testing"

	"cab-booking/backend/internal/model"
)

func TestCalculateFare_Sedan(t *testing.T) {
	office := &model.Location{DistanceFromOffice: 0}
	airport := &model.Location{DistanceFromOffice: 15.2}

	fare, err := CalculateFare(office, airport, model.VehicleTypeSedan)
	if err != nil {
		t.Fatalf("期望成功，实际: %v", err)
	}
	if fare != 1010 {
		t.Errorf("期望 1010，实际 %d", fare)
	}

	// 方向无关
	reverse, _ := CalculateFare(airport, office, model.VehicleTypeSedan)
	if reverse != fare {
		t.Errorf("往返车费应一致: %d vs %d", fare, reverse)
	}
}

func TestCalculateFare_EqualDistanceIsBaseFare(t *testing.T) {
	a := &model.Location{DistanceFromOffice: 7.5}
	b := &model.Location{DistanceFromOffice: 7.5}

	for _, vt := range []string{model.VehicleTypeSedan, model.VehicleTypeSUV, model.VehicleTypeVan} {
		fare, err := CalculateFare(a, b, vt)
		if err != nil {
			t.Fatalf("%s: %v", vt, err)
		}
		base, _ := BaseFare(vt)
		if fare != base {
			t.Errorf("%s: 等距两地应为起步价 %d，实际 %d", vt, base, fare)
		}
	}
}

func TestCalculateFare_NeverBelowBase(t *testing.T) {
	distances := []float64{0, 0.1, 0.49, 3, 12.75, 40}
	for _, vt := range []string{model.VehicleTypeSedan, model.VehicleTypeSUV, model.VehicleTypeVan} {
		base, _ := BaseFare(vt)
		for _, d := range distances {
			fare, err := CalculateFare(&model.Location{}, &model.Location{DistanceFromOffice: d}, vt)
			if err != nil {
				t.Fatalf("%s/%v: %v", vt, d, err)
			}
			if fare < base {
				t.Errorf("%s/%v: 车费 %d 低于起步价 %d", vt, d, fare, base)
			}
		}
	}
}

func TestCalculateFare_Rounding(t *testing.T) {
	// SUV: 350 + 2.25*70 = 507.5 → 508
	fare, _ := CalculateFare(&model.Location{}, &model.Location{DistanceFromOffice: 2.25}, model.VehicleTypeSUV)
	if fare != 508 {
		t.Errorf("期望四舍五入为 508，实际 %d", fare)
	}
}

func TestCalculateFare_InvalidVehicleType(t *testing.T) {
	_, err := CalculateFare(&model.Location{}, &model.Location{}, "BUS")
	if !errors.Is(err, ErrInvalidVehicleType) {
		t.Errorf("期望 ErrInvalidVehicleType，实际: %v", err)
	}
	if _, err := BaseFare("BUS"); !errors.Is(err, ErrInvalidVehicleType) {
		t.Errorf("BaseFare 期望 ErrInvalidVehicleType，实际: %v", err)
	}
}
