package address

import (
	"regexp"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-storefront/pkg/client"
	"github.com/goliatone/go-storefront/pkg/frontend"
	"github.com/goliatone/go-storefront/pkg/sanitize"
	"github.com/goliatone/go-storefront/pkg/storectx"
	"github.com/goliatone/go-storefront/pkg/view"
)

// Address options shared by billing and delivery.
const (
	OptionNew  = "new"
	OptionLike = "like"
)

// Field states reported in the <kind>Error view value.
const (
	FieldMissing = "missing"
	FieldInvalid = "invalid"
)

// addressFields lists the form fields an address accepts.
var addressFields = []string{
	"salutation", "company", "firstname", "lastname", "address1", "address2",
	"postal", "city", "state", "countryid", "languageid", "email", "telephone",
}

// form reads and validates submitted address fields of one address type.
type form struct {
	kind      string
	param     string
	mandatory []string
}

func (f form) mandatoryFields(sc *storectx.Context) []string {
	return sc.Conf().Strings("client/html/checkout/standard/address/"+f.kind+"/mandatory", f.mandatory)
}

// values returns the sanitized submitted fields.
func (f form) values(v *view.View) map[string]string {
	submitted := v.Params().StringMap(f.param)
	values := make(map[string]string, len(addressFields))
	for _, field := range addressFields {
		if value := sanitize.Text(submitted[field]); value != "" {
			values[field] = value
		}
	}
	return values
}

// read builds the address from the request or reports missing and invalid
// fields on the view under "<kind>Error".
func (f form) read(sc *storectx.Context, v *view.View) (frontend.Address, error) {
	values := f.values(v)
	if values["languageid"] == "" && sc.Locale.LanguageID != "" {
		values["languageid"] = sc.Locale.LanguageID
	}

	problems := map[string]string{}
	for _, field := range f.mandatoryFields(sc) {
		if values[field] == "" {
			problems[field] = FieldMissing
		}
	}
	for field, value := range values {
		pattern := sc.Conf().String("client/html/checkout/standard/address/validate/"+field, "")
		if pattern == "" {
			continue
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			sc.Log().Warn("invalid address validation pattern",
				zap.String("field", field),
				zap.Error(err),
			)
			continue
		}
		if !re.MatchString(value) {
			problems[field] = FieldInvalid
		}
	}

	if len(problems) == 0 {
		return frontend.AddressFromMap(values), nil
	}

	v.Set(f.kind+"Error", problems)

	var missing, invalid []string
	for _, field := range sortedKeys(problems) {
		if problems[field] == FieldMissing {
			missing = append(missing, field)
		} else {
			invalid = append(invalid, field)
		}
	}
	if len(missing) > 0 {
		return frontend.Address{}, client.Errorf("Mandatory fields are missing: %[1]s", strings.Join(missing, ", "))
	}
	return frontend.Address{}, client.Errorf("Invalid values in fields: %[1]s", strings.Join(invalid, ", "))
}

// addData exposes the form settings and the submitted values for refilling
// the form.
func (f form) addData(sc *storectx.Context, v *view.View, option string) {
	v.Set(f.kind+"Mandatory", f.mandatoryFields(sc))
	v.Set(f.kind+"Option", option)
	v.Set(f.kind+"Values", f.values(v))
	v.Set(f.kind+"Language", sc.Locale.LanguageID)
}

func basketController(sc *storectx.Context) (frontend.BasketController, error) {
	if sc.Controllers.Basket == nil {
		return nil, frontend.NewControllerError("No basket available", nil)
	}
	return sc.Controllers.Basket, nil
}

func sortedKeys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for key := range m {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}
