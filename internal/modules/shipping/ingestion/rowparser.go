package ingestion

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	types "github.com/shiplabel/shiplabel-backend/internal/domain"
)

// RowWidth is the number of positional cells every row is padded to.
const RowWidth = 23

const (
	colFromFirstName = iota
	colFromLastName
	colFromAddress1
	colFromAddress2
	colFromCity
	colFromZip
	colFromState
	colToFirstName
	colToLastName
	colToAddress1
	colToAddress2
	colToCity
	colToZip
	colToState
	colWeightLbs
	colWeightOz
	colLength
	colWidth
	colHeight
	colPhone1
	colPhone2
	colOrderNumber
	colItemSKU
)

// RowParseError reports a cell whose value cannot describe a package.
type RowParseError struct {
	Column string
	Value  string
	Reason string
}

func (e *RowParseError) Error() string {
	return fmt.Sprintf("%s %q: %s", e.Column, e.Value, e.Reason)
}

// ParseRow turns one positional row into a draft. A nil draft with a nil error means the row
// lacks a required ship-to field and is skipped.
func ParseRow(fields []string, rowNumber int) (*types.ShipmentDraft, error) {
	row := pad(fields)

	shipTo := types.AddressDraft{
		FirstName:    cell(row, colToFirstName),
		LastName:     cell(row, colToLastName),
		AddressLine1: cell(row, colToAddress1),
		AddressLine2: cell(row, colToAddress2),
		City:         cell(row, colToCity),
		State:        cell(row, colToState),
		ZipCode:      cell(row, colToZip),
	}
	if shipTo.FirstName == "" || shipTo.AddressLine1 == "" || shipTo.City == "" ||
		shipTo.ZipCode == "" || shipTo.State == "" {
		return nil, nil
	}

	weightLbs, err := intCell(row, colWeightLbs, "weight_lbs")
	if err != nil {
		return nil, err
	}
	weightOz, err := intCell(row, colWeightOz, "weight_oz")
	if err != nil {
		return nil, err
	}
	length, err := decimalCell(row, colLength, "length")
	if err != nil {
		return nil, err
	}
	width, err := decimalCell(row, colWidth, "width")
	if err != nil {
		return nil, err
	}
	height, err := decimalCell(row, colHeight, "height")
	if err != nil {
		return nil, err
	}

	phone := cell(row, colPhone1)
	if phone == "" {
		phone = cell(row, colPhone2)
	}
	shipTo.Phone = phone

	draft := &types.ShipmentDraft{
		ShipTo: shipTo,
		Package: types.PackageDraft{
			Length:    length,
			Width:     width,
			Height:    height,
			WeightLbs: weightLbs,
			WeightOz:  weightOz,
			ItemSKU:   cell(row, colItemSKU),
		},
		OrderNumber: cell(row, colOrderNumber),
	}
	if draft.OrderNumber == "" {
		draft.OrderNumber = "ORD-" + strconv.Itoa(rowNumber)
	}

	fromFirst := cell(row, colFromFirstName)
	fromLine1 := cell(row, colFromAddress1)
	if fromFirst != "" || fromLine1 != "" {
		draft.ShipFrom = &types.AddressDraft{
			FirstName:    fromFirst,
			LastName:     cell(row, colFromLastName),
			AddressLine1: fromLine1,
			AddressLine2: cell(row, colFromAddress2),
			City:         cell(row, colFromCity),
			State:        cell(row, colFromState),
			ZipCode:      cell(row, colFromZip),
			Phone:        phone,
		}
	}
	return draft, nil
}

func pad(fields []string) []string {
	if len(fields) >= RowWidth {
		return fields
	}
	row := make([]string, RowWidth)
	copy(row, fields)
	return row
}

func cell(row []string, i int) string {
	return strings.TrimSpace(row[i])
}

// Whole counts stay inside int32 so totals in ounces cannot overflow.
const maxCount = float64(math.MaxInt32)

// intCell parses float-then-truncate. Blank, unparseable or NaN text yields 0.
func intCell(row []string, i int, column string) (int, error) {
	raw := cell(row, i)
	if raw == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, nil
	}
	if math.IsNaN(f) {
		return 0, nil
	}
	if math.IsInf(f, 0) {
		return 0, &RowParseError{Column: column, Value: raw, Reason: "value is not finite"}
	}
	if f < 0 {
		return 0, &RowParseError{Column: column, Value: raw, Reason: "value must not be negative"}
	}
	if f > maxCount {
		return 0, &RowParseError{Column: column, Value: raw, Reason: "value is out of range"}
	}
	return int(f), nil
}

// decimalCell keeps two decimal places. Blank or unparseable text yields 0.
func decimalCell(row []string, i int, column string) (decimal.Decimal, error) {
	raw := cell(row, i)
	if raw == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		f, ferr := strconv.ParseFloat(raw, 64)
		if ferr != nil && !errors.Is(ferr, strconv.ErrRange) {
			return decimal.Zero, nil
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return decimal.Zero, &RowParseError{Column: column, Value: raw, Reason: "value is not finite"}
		}
		d = decimal.NewFromFloat(f)
	}
	if d.IsNegative() {
		return decimal.Zero, &RowParseError{Column: column, Value: raw, Reason: "value must not be negative"}
	}
	return d.Round(2), nil
}
