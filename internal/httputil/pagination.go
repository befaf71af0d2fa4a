package httputil

import (
	"strconv"

	"github.com/gin-gonic/gin"
	validation "github.com/jellydator/validation"
)

// Window bounds the limit a client may ask for on a name listing.
type Window struct {
	DefaultLimit int
	MaxLimit     int
}

// Listing windows of the registry endpoints. A configuration holds a few
// hundred devices at most, while each device may claim several AE titles.
var (
	DeviceNameWindow = Window{DefaultLimit: 50, MaxLimit: 200}
	AETitleWindow    = Window{DefaultLimit: 100, MaxLimit: 1000}
	WebAppNameWindow = Window{DefaultLimit: 50, MaxLimit: 500}
)

// Page is the part of a sorted name listing a client asked for.
type Page struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// ParsePage reads the offset and limit query parameters and checks them
// against w. A missing limit takes the window default.
func ParsePage(c *gin.Context, w Window) (Page, error) {
	errs := validation.Errors{}
	page := Page{Limit: w.DefaultLimit}

	if raw, ok := c.GetQuery("offset"); ok {
		n, err := strconv.Atoi(raw)
		if err != nil {
			errs["offset"] = validation.NewError("validation_not_integer", "must be an integer")
		}
		page.Offset = n
	}
	if raw, ok := c.GetQuery("limit"); ok {
		n, err := strconv.Atoi(raw)
		if err != nil {
			errs["limit"] = validation.NewError("validation_not_integer", "must be an integer")
		}
		page.Limit = n
	}
	if len(errs) > 0 {
		return Page{}, errs
	}

	err := validation.ValidateStruct(&page,
		validation.Field(&page.Offset, validation.Min(0)),
		validation.Field(&page.Limit,
			validation.Required.Error("must be no less than 1"),
			validation.Min(1),
			validation.Max(w.MaxLimit),
		),
	)
	if err != nil {
		return Page{}, err
	}
	return page, nil
}

// Slice returns the names inside the page.
func (p Page) Slice(names []string) []string {
	start := min(p.Offset, len(names))
	end := min(start+p.Limit, len(names))
	out := make([]string, 0, end-start)
	return append(out, names[start:end]...)
}
