package server

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"

	"github.com/javiermolinar/dayring/internal/schedule"
)

// maxBody caps request bodies; every request here is a few fields.
const maxBody = 1 << 16

// TimeRequest moves a boundary to Time ("HH:MM").
type TimeRequest struct {
	Time string `json:"time" validate:"required,clock"`
}

// LabelRequest renames a slot. An empty label clears it.
type LabelRequest struct {
	Label string `json:"label" validate:"max=64"`
}

// ColorRequest recolors a slot.
type ColorRequest struct {
	Color string `json:"color" validate:"required,hexcolor"`
}

// DragBeginRequest grabs the end boundary of slot Index.
type DragBeginRequest struct {
	Index *int `json:"index" validate:"required,min=0"`
}

// DragMoveRequest moves the grabbed boundary either to a clock time or to a
// pointer position in ring coordinates.
type DragMoveRequest struct {
	Time string   `json:"time" validate:"omitempty,clock"`
	X    *float64 `json:"x" validate:"required_without=Time"`
	Y    *float64 `json:"y" validate:"required_without=Time"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("clock", validateClock)
	return v
}

func validateClock(fl validator.FieldLevel) bool {
	_, err := schedule.ParseTime(fl.Field().String())
	return err == nil
}

// decode reads and validates a JSON body into dst.
func decode(r *http.Request, dst any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBody))
	if err != nil {
		return fmt.Errorf("%w: reading body: %v", errBadRequest, err)
	}
	if len(body) == 0 {
		return fmt.Errorf("%w: empty body", errBadRequest)
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return validate.Struct(dst)
}

func indexParam(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "index")
	i, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: index %q is not a number", errBadRequest, raw)
	}
	return i, nil
}
