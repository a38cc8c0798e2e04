package proposal

import (
	"fmt"

	"github.com/samber/lo"

	"proposal-review-service/internal/domain/activity"
	"proposal-review-service/internal/domain/errs"
)

// Policy decides how an upload count is compared with a template's quantity.
type Policy string

const (
	QuantityAtLeast Policy = "at_least"
	QuantityExact   Policy = "exact"
)

func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(s); p {
	case QuantityAtLeast, QuantityExact:
		return p, nil
	case "":
		return QuantityAtLeast, nil
	}
	return "", fmt.Errorf("unknown document count policy %q", s)
}

func (p Policy) satisfied(count int, quantity uint) bool {
	if quantity == 0 {
		return true
	}
	if p == QuantityExact {
		return count == int(quantity)
	}
	return count >= int(quantity)
}

// checkTemplateKeys rejects uploads tagged with an id that is not one of the templates.
func checkTemplateKeys(templates []activity.Template, uploads []Upload) error {
	known := lo.KeyBy(templates, func(t activity.Template) string { return t.ID })
	for _, up := range uploads {
		if _, ok := known[up.TemplateID]; !ok {
			return errs.Validationf("unknown document template %s", up.TemplateID)
		}
	}
	return nil
}

// ValidateDocuments checks uploads against every template of an activity. It touches no storage.
func ValidateDocuments(templates []activity.Template, uploads []Upload, policy Policy) error {
	if err := checkTemplateKeys(templates, uploads); err != nil {
		return err
	}
	counts := lo.CountValuesBy(uploads, func(up Upload) string { return up.TemplateID })
	for _, t := range templates {
		if !policy.satisfied(counts[t.ID], t.Quantity) {
			return errs.Validationf("invalid number of files for document template %s", t.Name)
		}
	}
	return nil
}
