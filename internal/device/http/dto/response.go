package dto

import (
	"github.com/allisson/dicomconf/internal/device/domain"
	"github.com/allisson/dicomconf/internal/httputil"
)

// ModifiedAttributeResponse is one attribute modification of an updated entry.
type ModifiedAttributeResponse struct {
	ID     string   `json:"id"`
	Op     string   `json:"op"`
	Values []string `json:"values,omitempty"`
}

// ModifiedObjectResponse is a directory entry touched by a write.
type ModifiedObjectResponse struct {
	DN         string                      `json:"dn"`
	Type       string                      `json:"type"`
	Attributes []ModifiedAttributeResponse `json:"attributes,omitempty"`
}

// ChangeLogResponse reports what a write did to the directory.
type ChangeLogResponse struct {
	Created int                      `json:"created"`
	Updated int                      `json:"updated"`
	Deleted int                      `json:"deleted"`
	Objects []ModifiedObjectResponse `json:"objects"`
}

// SaveDeviceResponse is returned by PUT /v1/devices/:name.
type SaveDeviceResponse struct {
	Name    string            `json:"name"`
	UID     string            `json:"uid"`
	Created bool              `json:"created"`
	Changes ChangeLogResponse `json:"changes"`
}

// ListResponse is a page of names.
type ListResponse struct {
	Data  []string `json:"data"`
	Total int      `json:"total"`
}

// ApplicationEntityResponse is an AE together with the name of its device.
type ApplicationEntityResponse struct {
	Device string `json:"device"`
	AEDocument
}

// WebApplicationResponse is a web application together with the name of its device.
type WebApplicationResponse struct {
	Device string `json:"device"`
	WebAppDocument
}

// MapChangeLogToResponse converts a change log into its API form. A nil change log maps to an empty one.
func MapChangeLogToResponse(changes *domain.ChangeLog) ChangeLogResponse {
	resp := ChangeLogResponse{
		Created: changes.Count(domain.ChangeCreated),
		Updated: changes.Count(domain.ChangeUpdated),
		Deleted: changes.Count(domain.ChangeDeleted),
		Objects: make([]ModifiedObjectResponse, 0),
	}
	if changes == nil {
		return resp
	}
	for _, obj := range changes.Objects {
		o := ModifiedObjectResponse{DN: obj.DN, Type: string(obj.Type)}
		for _, attr := range obj.Attributes {
			o.Attributes = append(o.Attributes, ModifiedAttributeResponse{
				ID:     attr.ID,
				Op:     attr.Op,
				Values: attr.Values,
			})
		}
		resp.Objects = append(resp.Objects, o)
	}
	return resp
}

// MapSaveDeviceResponse builds the response of a device save.
func MapSaveDeviceResponse(device *domain.Device, created bool, changes *domain.ChangeLog) SaveDeviceResponse {
	return SaveDeviceResponse{
		Name:    device.Name,
		UID:     device.UID,
		Created: created,
		Changes: MapChangeLogToResponse(changes),
	}
}

// MapNamesToListResponse returns the page of names with the full count.
func MapNamesToListResponse(names []string, page httputil.Page) ListResponse {
	return ListResponse{Data: page.Slice(names), Total: len(names)}
}
