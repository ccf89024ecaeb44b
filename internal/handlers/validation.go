package handlers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/rmitchellscott/hass-render/internal/display"
	"github.com/rmitchellscott/hass-render/internal/entity"
	"github.com/rmitchellscott/hass-render/internal/layout"
)

// imageQuery holds the size and output options shared by the colour routes.
type imageQuery struct {
	Width    int    `form:"width" binding:"omitempty,min=160,max=2000"`
	Height   int    `form:"height" binding:"omitempty,min=100,max=2000"`
	BitDepth int    `form:"bit_depth" binding:"omitempty,oneof=1 2 4 8"`
	Cache    string `form:"cache" binding:"omitempty,oneof=true false 1 0 yes no"`
}

type multiStatusQuery struct {
	imageQuery
	Sensors string `form:"sensors" binding:"required"`
	Title   string `form:"title" binding:"max=64"`
}

type trmnlQuery struct {
	Sensors string `form:"sensors" binding:"required"`
	Title   string `form:"title" binding:"max=64"`
	Cache   string `form:"cache" binding:"omitempty,oneof=true false 1 0 yes no"`
}

func useCache(flag string) bool {
	switch flag {
	case "false", "0", "no":
		return false
	}
	return true
}

// validationErrorMessage returns a user-friendly validation error message.
func validationErrorMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, ve := range verrs {
			switch ve.Field() {
			case "Width":
				return fmt.Sprintf("width must be between %d and %d", display.MinWidth, display.MaxWidth)
			case "Height":
				return fmt.Sprintf("height must be between %d and %d", display.MinHeight, display.MaxHeight)
			case "BitDepth":
				return "bit_depth must be one of 1, 2, 4 or 8"
			case "Cache":
				return "cache must be true or false"
			case "Sensors":
				switch ve.Tag() {
				case "required":
					return "No sensors provided. Use ?sensors=sensor1,sensor2"
				}
			case "Title":
				switch ve.Tag() {
				case "max":
					return "title must be at most 64 characters"
				}
			}
		}
	}
	return "Invalid query parameters"
}

// parseSensors splits a comma separated sensor list and checks each id.
func parseSensors(raw string, limit int) ([]string, error) {
	var ids []string
	for _, part := range strings.Split(raw, ",") {
		id := strings.TrimSpace(part)
		if id == "" {
			continue
		}
		if !entity.ValidID(id) {
			return nil, fmt.Errorf("invalid entity id %q", id)
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, errors.New("No sensors provided. Use ?sensors=sensor1,sensor2")
	}
	if len(ids) > limit {
		return nil, fmt.Errorf("Too many sensors (max %d allowed)", limit)
	}
	return ids, nil
}

// checkMultiHeight rejects explicit heights too small for n rows.
func checkMultiHeight(height, n int) error {
	if height == 0 {
		return nil
	}
	if floor := layout.MinMultiHeight(n); height < floor {
		return fmt.Errorf("height must be at least %d for %d sensors", floor, n)
	}
	return nil
}
