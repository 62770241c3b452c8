package types

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/cockroachdb/apd/v3"
	"github.com/golang-sql/civil"
	"github.com/pkg/errors"
)

var symbolPattern = regexp.MustCompile(`^[A-Z]{1,7}$`)

// Asset is a token quantity such as "10.0000 X". It can be passed directly as an
// action parameter; it marshals to its string form.
type Asset struct {
	Amount    apd.Decimal
	Precision uint8
	Symbol    string
}

// NewAsset builds an asset from a decimal amount string, rounding it to precision.
func NewAsset(amount string, precision uint8, symbol string) (Asset, error) {
	d, _, err := apd.NewFromString(amount)
	if err != nil {
		return Asset{}, errors.Wrapf(err, "invalid asset amount %q", amount)
	}
	if !symbolPattern.MatchString(symbol) {
		return Asset{}, errors.Errorf("invalid asset symbol %q", symbol)
	}
	a := Asset{Precision: precision, Symbol: symbol}
	if _, err := apd.BaseContext.WithPrecision(34).Quantize(&a.Amount, d, -int32(precision)); err != nil {
		return Asset{}, errors.Wrapf(err, "quantize asset amount %q", amount)
	}
	return a, nil
}

// ParseAsset parses "<amount> <SYMBOL>"; the precision is the number of decimals of amount.
func ParseAsset(s string) (Asset, error) {
	parts := strings.Fields(s)
	if len(parts) != 2 {
		return Asset{}, errors.Errorf("invalid asset %q: expected '<amount> <symbol>'", s)
	}
	precision := 0
	if dot := strings.IndexByte(parts[0], '.'); dot >= 0 {
		precision = len(parts[0]) - dot - 1
	}
	if precision > 18 {
		return Asset{}, errors.Errorf("invalid asset %q: precision %d is too large", s, precision)
	}
	return NewAsset(parts[0], uint8(precision), parts[1])
}

func (a Asset) String() string {
	return fmt.Sprintf("%s %s", a.Amount.Text('f'), a.Symbol)
}

func (a Asset) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

func (a *Asset) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return errors.WithStack(err)
	}
	parsed, err := ParseAsset(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

const timePointSecLayout = "%sT%02d:%02d:%02d"

// TimePointSec is a second-precision UTC timestamp parameter, marshaled as
// "2006-01-02T15:04:05".
type TimePointSec struct {
	civil.DateTime
}

// NewTimePointSec truncates t to seconds in UTC.
func NewTimePointSec(t time.Time) TimePointSec {
	return TimePointSec{DateTime: civil.DateTimeOf(t.UTC().Truncate(time.Second))}
}

func (t TimePointSec) String() string {
	return fmt.Sprintf(timePointSecLayout, t.Date.String(), t.Time.Hour, t.Time.Minute, t.Time.Second)
}

func (t TimePointSec) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *TimePointSec) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return errors.WithStack(err)
	}
	dt, err := civil.ParseDateTime(s)
	if err != nil {
		return errors.Wrapf(err, "invalid time_point_sec %q", s)
	}
	dt.Time.Nanosecond = 0
	t.DateTime = dt
	return nil
}
