package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/dicomconf/internal/validation"
)

// SaveDeviceRequest contains a device to create or update.
// The device name is taken from the URL parameter when the body omits it.
type SaveDeviceRequest struct {
	DeviceDocument `yaml:",inline"`
}

// Validate checks the parts of the request that cannot be checked on the
// domain model: base64 encoded values. The device itself is validated by the
// use case.
func (r *SaveDeviceRequest) Validate() error {
	return validation.ValidateStruct(&r.DeviceDocument,
		validation.Field(&r.Name, validation.Required, customValidation.NotBlank),
		validation.Field(&r.VendorData, validation.Each(validation.Required, customValidation.Base64)),
		validation.Field(&r.AuthorizedNodeCertificates,
			validation.Each(validation.Each(validation.Required, customValidation.Base64)),
		),
		validation.Field(&r.ThisNodeCertificates,
			validation.Each(validation.Each(validation.Required, customValidation.Base64)),
		),
	)
}

// RegisterAETitleRequest reserves an AE title without configuring an AE.
type RegisterAETitleRequest struct {
	AETitle string `json:"ae_title"`
}

// Validate checks if the register AE title request is valid.
func (r *RegisterAETitleRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.AETitle, validation.Required, customValidation.AETitle),
	)
}
