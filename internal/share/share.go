// Package share encodes acquisition inputs as a URL query so a simulation can
// be reopened from a link.
package share

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/go-querystring/query"
	"github.com/iwvelando/property-yield/internal/acquisition"
)

// amount writes plain decimal notation; fmt would switch to exponents from
// one million upwards.
type amount float64

// EncodeValues implements query.Encoder.
func (a amount) EncodeValues(key string, v *url.Values) error {
	v.Set(key, strconv.FormatFloat(float64(a), 'f', -1, 64))
	return nil
}

// params is the query form of acquisition.Inputs. Recurring charges are only
// written when set.
type params struct {
	Title             string `url:"title"`
	MonthlyRent       amount `url:"loyer"`
	NetSellerPrice    amount `url:"prixNet"`
	AgencyFees        amount `url:"agence"`
	RenovationBudget  amount `url:"travaux"`
	NotaryFeesPercent amount `url:"tauxNotaire"`
	LoanDurationYears amount `url:"duree"`
	InterestRate      amount `url:"tauxCredit"`
	DownPayment       amount `url:"apport"`
	TargetYield       amount `url:"rentaCible"`
	MaintenanceFees   amount `url:"entretien,omitempty"`
	PropertyTax       amount `url:"taxeFonciere,omitempty"`
	LocalBusinessTax  amount `url:"cfe,omitempty"`
	CondoFees         amount `url:"copro,omitempty"`
}

func toParams(in acquisition.Inputs) params {
	return params{
		Title:             in.Title,
		MonthlyRent:       amount(in.MonthlyRent),
		NetSellerPrice:    amount(in.NetSellerPrice),
		AgencyFees:        amount(in.AgencyFees),
		RenovationBudget:  amount(in.RenovationBudget),
		NotaryFeesPercent: amount(in.NotaryFeesPercent),
		LoanDurationYears: amount(in.LoanDurationYears),
		InterestRate:      amount(in.InterestRate),
		DownPayment:       amount(in.DownPayment),
		TargetYield:       amount(in.TargetYield),
		MaintenanceFees:   amount(in.MaintenanceFees),
		PropertyTax:       amount(in.PropertyTax),
		LocalBusinessTax:  amount(in.LocalBusinessTax),
		CondoFees:         amount(in.CondoFees),
	}
}

// Values returns the query parameters for in.
func Values(in acquisition.Inputs) (url.Values, error) {
	values, err := query.Values(toParams(in))
	if err != nil {
		return nil, fmt.Errorf("failed to encode share parameters: %w", err)
	}
	return values, nil
}

// Encode returns the encoded query string for in, sorted by key.
func Encode(in acquisition.Inputs) (string, error) {
	values, err := Values(in)
	if err != nil {
		return "", err
	}
	return values.Encode(), nil
}

// Apply overrides base with every parameter present in values. Numeric
// parameters that are empty or do not parse as finite numbers are ignored.
func Apply(base acquisition.Inputs, values url.Values) acquisition.Inputs {
	in := base
	if title := values.Get("title"); title != "" {
		in.Title = title
	}

	fields := []struct {
		key   string
		field *float64
	}{
		{"loyer", &in.MonthlyRent},
		{"prixNet", &in.NetSellerPrice},
		{"agence", &in.AgencyFees},
		{"travaux", &in.RenovationBudget},
		{"tauxNotaire", &in.NotaryFeesPercent},
		{"duree", &in.LoanDurationYears},
		{"tauxCredit", &in.InterestRate},
		{"apport", &in.DownPayment},
		{"rentaCible", &in.TargetYield},
		{"entretien", &in.MaintenanceFees},
		{"taxeFonciere", &in.PropertyTax},
		{"cfe", &in.LocalBusinessTax},
		{"copro", &in.CondoFees},
	}
	for _, f := range fields {
		if value, ok := parseNumber(values.Get(f.key)); ok {
			*f.field = value
		}
	}
	return in
}

// Parse decodes a raw query string over base. A leading "?" is accepted.
func Parse(base acquisition.Inputs, rawQuery string) (acquisition.Inputs, error) {
	values, err := url.ParseQuery(strings.TrimPrefix(rawQuery, "?"))
	if err != nil {
		return base, fmt.Errorf("failed to parse share query: %w", err)
	}
	return Apply(base, values), nil
}

func parseNumber(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, false
	}
	return value, true
}
