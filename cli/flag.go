package cli

import (
	"fmt"
	"strings"

	"github.com/ka2n/cloudapp/api"
	"github.com/morikuni/failure/v2"
	"github.com/samber/lo"
	"github.com/spf13/pflag"
)

type filterFlag struct {
	IsSet bool
	Value api.Filter
}

// String implements pflag.Value.
func (f *filterFlag) String() string {
	return f.Value.String()
}

func (f *filterFlag) Set(value string) error {
	filter, err := api.ParseFilter(value)
	if err != nil {
		return err
	}
	f.Value = filter
	f.IsSet = true
	return nil
}

func (f *filterFlag) Type() string {
	return strings.Join(lo.Map(api.Filters(), func(f api.Filter, _ int) string { return f.String() }), "|")
}

var _ pflag.Value = &filterFlag{}

type privacyFlag struct {
	IsSet bool
	Value bool
}

// String implements pflag.Value.
func (f *privacyFlag) String() string {
	if !f.IsSet {
		return ""
	}
	return lo.Ternary(f.Value, "private", "public")
}

func (f *privacyFlag) Set(value string) error {
	switch value {
	case "private":
		f.Value = true
	case "public":
		f.Value = false
	default:
		return failure.New(InvalidArguments,
			failure.Message(fmt.Sprintf("Unknown privacy %q, expected private or public", value)),
		)
	}
	f.IsSet = true
	return nil
}

func (f *privacyFlag) Type() string {
	return "private|public"
}

// ptr returns nil when the flag was not given.
func (f *privacyFlag) ptr() *bool {
	if !f.IsSet {
		return nil
	}
	return lo.ToPtr(f.Value)
}

var _ pflag.Value = &privacyFlag{}
