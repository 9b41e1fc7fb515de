package lifecycle

import (
	"context"
	"fmt"

	apperrors "equipment-tracker/pkg/errors"
)

type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (c Coordinate) Validate() error {
	if c.Lat < -90 || c.Lat > 90 || c.Lng < -180 || c.Lng > 180 {
		return apperrors.NewValidationError("координаты вне допустимого диапазона", "lat", "lng")
	}
	return nil
}

// PositionSource - источник одной точки. Ошибки источника оборачивают
// apperrors.ErrPositionUnavailable.
type PositionSource interface {
	Capture(ctx context.Context) (Coordinate, error)
}

// Коды ошибок, которые браузер присылает вместо координат.
const (
	PositionErrorPermissionDenied = "permission_denied"
	PositionErrorTimeout          = "timeout"
	PositionErrorUnsupported      = "unsupported"
)

// ReportedPosition - координата (или код ошибки), полученная устройством клиента.
type ReportedPosition struct {
	Coordinate *Coordinate `json:"coordinate,omitempty"`
	Error      string      `json:"error,omitempty"`
}

func (p ReportedPosition) Capture(ctx context.Context) (Coordinate, error) {
	if err := ctx.Err(); err != nil {
		return Coordinate{}, fmt.Errorf("%w: %v", apperrors.ErrPositionTimeout, err)
	}
	switch p.Error {
	case "":
	case PositionErrorPermissionDenied:
		return Coordinate{}, apperrors.ErrPermissionDenied
	case PositionErrorTimeout:
		return Coordinate{}, apperrors.ErrPositionTimeout
	case PositionErrorUnsupported:
		return Coordinate{}, apperrors.ErrPositionUnsupported
	default:
		return Coordinate{}, fmt.Errorf("%w: %s", apperrors.ErrPositionUnavailable, p.Error)
	}
	if p.Coordinate == nil {
		return Coordinate{}, apperrors.ErrPositionUnsupported
	}
	if err := p.Coordinate.Validate(); err != nil {
		return Coordinate{}, fmt.Errorf("%w: %v", apperrors.ErrPositionUnavailable, err)
	}
	return *p.Coordinate, nil
}
