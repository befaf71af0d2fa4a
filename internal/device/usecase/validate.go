package usecase

import (
	"errors"
	"fmt"
	"slices"
	"strconv"

	validation "github.com/jellydator/validation"

	"github.com/allisson/dicomconf/internal/device/domain"
	"github.com/allisson/dicomconf/internal/ldapcodec"
	customValidation "github.com/allisson/dicomconf/internal/validation"
)

// ValidateDevice checks device and all its children before they are written.
func ValidateDevice(device *domain.Device) error {
	if device == nil {
		return customValidation.WrapValidationError(errors.New("device is required"))
	}
	err := validation.ValidateStruct(device,
		validation.Field(&device.Name, validation.Required, customValidation.NotBlank),
		validation.Field(&device.LimitOpenAssociations, validation.Min(0)),
		validation.Field(&device.Connections,
			eachPtr(validateConnection),
		),
		validation.Field(&device.ApplicationEntities,
			validation.By(uniqueAETitles),
			validation.By(aeConnectionRefs(device)),
			eachPtr(validateApplicationEntity),
		),
		validation.Field(&device.WebApplications,
			validation.By(uniqueWebAppNames),
			validation.By(webAppConnectionRefs(device)),
			eachPtr(validateWebApplication),
		),
		validation.Field(&device.KeycloakClients,
			eachPtr(validateKeycloakClient),
		),
	)
	return customValidation.WrapValidationError(err)
}

func validateConnection(conn *domain.Connection) error {
	if conn.ExternalDN != "" {
		return nil
	}
	return validation.ValidateStruct(conn,
		validation.Field(&conn.Hostname, validation.Required, customValidation.NoWhitespace),
		validation.Field(&conn.Port, customValidation.Port),
		validation.Field(&conn.ConnectTimeout, validation.Min(0)),
		validation.Field(&conn.IdleTimeout, validation.Min(0)),
		validation.Field(&conn.SendPDULength, validation.Min(0)),
	)
}

func validateApplicationEntity(ae *domain.ApplicationEntity) error {
	return validation.ValidateStruct(ae,
		validation.Field(&ae.AETitle, validation.Required, customValidation.AETitle),
		validation.Field(&ae.TransferCapabilities,
			eachPtr(validateTransferCapability),
		),
	)
}

func validateTransferCapability(tc *domain.TransferCapability) error {
	return validation.ValidateStruct(tc,
		validation.Field(&tc.SOPClass, validation.Required, customValidation.NoWhitespace),
		validation.Field(&tc.Role, validation.Required, validation.In(domain.RoleSCU, domain.RoleSCP)),
		validation.Field(&tc.TransferSyntaxes,
			validation.Required,
			validation.Length(1, ldapcodec.MaxOrderedValues),
			validation.Each(validation.Required, customValidation.NoWhitespace),
		),
	)
}

func validateWebApplication(wa *domain.WebApplication) error {
	return validation.ValidateStruct(wa,
		validation.Field(&wa.Name, validation.Required, customValidation.NotBlank),
		validation.Field(&wa.ServicePath, validation.Required, customValidation.NoWhitespace),
		validation.Field(&wa.AETitle, customValidation.AETitle),
		validation.Field(&wa.ServiceClasses, validation.Each(validation.In(serviceClasses()...))),
	)
}

func validateKeycloakClient(kc *domain.KeycloakClient) error {
	return validation.ValidateStruct(kc,
		validation.Field(&kc.ClientID, validation.Required, customValidation.NotBlank),
		validation.Field(&kc.GrantType, validation.In(domain.GrantClientCredentials, domain.GrantPassword)),
	)
}

func uniqueAETitles(value interface{}) error {
	aes, _ := value.([]*domain.ApplicationEntity)
	seen := make(map[string]bool, len(aes))
	for _, ae := range aes {
		if ae == nil {
			continue
		}
		if seen[ae.AETitle] {
			return validation.NewError("validation_ae_title_duplicate",
				fmt.Sprintf("AE title %q is used more than once", ae.AETitle))
		}
		seen[ae.AETitle] = true
	}
	return nil
}

func uniqueWebAppNames(value interface{}) error {
	apps, _ := value.([]*domain.WebApplication)
	seen := make(map[string]bool, len(apps))
	for _, wa := range apps {
		if wa == nil {
			continue
		}
		if seen[wa.Name] {
			return validation.NewError("validation_webapp_name_duplicate",
				fmt.Sprintf("web application name %q is used more than once", wa.Name))
		}
		seen[wa.Name] = true
	}
	return nil
}

// eachPtr applies validate to every element of a slice of pointers. Unlike
// validation.Each it hands over the pointer itself, so validators can address
// the element's fields. Nil elements are reported as empty.
func eachPtr[T any](validate func(*T) error) validation.Rule {
	return validation.By(func(value interface{}) error {
		items, _ := value.([]*T)
		errs := validation.Errors{}
		for i, item := range items {
			key := strconv.Itoa(i)
			if item == nil {
				errs[key] = validation.NewError("validation_element_nil", "must not be empty")
				continue
			}
			if err := validate(item); err != nil {
				errs[key] = err
			}
		}
		if len(errs) == 0 {
			return nil
		}
		return errs
	})
}

// aeConnectionRefs checks that AEs only reference connections of device or
// connections of other devices identified by their DN.
func aeConnectionRefs(device *domain.Device) func(interface{}) error {
	return func(value interface{}) error {
		aes, _ := value.([]*domain.ApplicationEntity)
		for _, ae := range aes {
			if ae == nil {
				continue
			}
			if err := ownedConnections(device, "AE", ae.AETitle, ae.Connections); err != nil {
				return err
			}
		}
		return nil
	}
}

// webAppConnectionRefs applies the AE reference rule to web applications.
func webAppConnectionRefs(device *domain.Device) func(interface{}) error {
	return func(value interface{}) error {
		apps, _ := value.([]*domain.WebApplication)
		for _, wa := range apps {
			if wa == nil {
				continue
			}
			if err := ownedConnections(device, "web application", wa.Name, wa.Connections); err != nil {
				return err
			}
		}
		return nil
	}
}

func ownedConnections(device *domain.Device, kind, name string, conns []*domain.Connection) error {
	for _, conn := range conns {
		if conn == nil {
			return validation.NewError("validation_connection_ref_nil",
				fmt.Sprintf("%s %q references an empty connection", kind, name))
		}
		if conn.ExternalDN == "" && !slices.Contains(device.Connections, conn) {
			return validation.NewError("validation_connection_ref_unknown",
				fmt.Sprintf("%s %q references a connection the device does not own", kind, name))
		}
	}
	return nil
}

func serviceClasses() []interface{} {
	classes := make([]interface{}, len(domain.WebServiceClasses))
	for i, c := range domain.WebServiceClasses {
		classes[i] = c
	}
	return classes
}
