package provider

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/terraform-plugin-framework/diag"
	"github.com/hashicorp/terraform-plugin-framework/types"

	"github.com/Jfmaigne/DSAMAC/internal/directory"
	"github.com/Jfmaigne/DSAMAC/internal/service"
)

// serviceFromProviderData extracts the directory service handed over by
// Configure. It returns nil without diagnostics while the provider is not yet
// configured.
func serviceFromProviderData(providerData any, diags *diag.Diagnostics) *service.Service {
	if providerData == nil {
		return nil
	}

	svc, ok := providerData.(*service.Service)
	if !ok {
		diags.AddError(
			"Unexpected Data Source Configure Type",
			fmt.Sprintf("Expected *service.Service, got: %T. Please report this issue to the provider developers.", providerData),
		)
		return nil
	}

	return svc
}

// idForDN resolves a distinguished name to the id of a loaded object of the
// given kind. DNs compare case-insensitively. It returns "" when nothing matches.
func idForDN(svc *service.Service, kind directory.Kind, dn string) string {
	snap := svc.Snapshot()
	if snap == nil {
		return ""
	}

	switch kind {
	case directory.KindUser:
		for _, u := range snap.Objects.Users {
			if strings.EqualFold(u.DistinguishedName, dn) {
				return u.ID
			}
		}
	case directory.KindGroup:
		for _, g := range snap.Objects.Groups {
			if strings.EqualFold(g.DistinguishedName, dn) {
				return g.ID
			}
		}
	case directory.KindComputer:
		for _, c := range snap.Objects.Computers {
			if strings.EqualFold(c.DistinguishedName, dn) {
				return c.ID
			}
		}
	case directory.KindContainer:
		for _, u := range snap.Units {
			if strings.EqualFold(u.DistinguishedName, dn) {
				return u.ID
			}
		}
	}

	return ""
}

// loadError reports why data sources cannot read from svc: the provider is
// unconfigured, or no load has succeeded yet.
func loadError(svc *service.Service) error {
	if svc == nil {
		return errors.New("the provider has not been configured")
	}
	if svc.Snapshot() != nil {
		return nil
	}
	if msg := svc.ErrorMessage(); msg != "" {
		return fmt.Errorf("the directory has not been loaded: %s", msg)
	}
	return errors.New("the directory has not been loaded")
}

// lookupID returns the object id selected by an `id` or `distinguished_name`
// lookup attribute. The id wins when both are known.
func lookupID(svc *service.Service, kind directory.Kind, id, dn types.String) string {
	if !id.IsNull() && !id.IsUnknown() && id.ValueString() != "" {
		return id.ValueString()
	}
	if !dn.IsNull() && !dn.IsUnknown() && dn.ValueString() != "" {
		return idForDN(svc, kind, dn.ValueString())
	}
	return ""
}
