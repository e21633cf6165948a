package exporter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected string
	}{
		{name: "zero value", input: 0.0, expected: "0"},
		{name: "whole number", input: 62.0, expected: "62"},
		{name: "negative whole number", input: -456.0, expected: "-456"},
		{name: "half", input: 59.5, expected: "59.5"},
		{name: "trailing zeros removed", input: 123.450000, expected: "123.45"},
		{name: "six decimal places", input: 1.123456, expected: "1.123456"},
		{name: "rounded to six places", input: 1.1234567890, expected: "1.123457"},
		{name: "small number as decimal", input: 1.23e-5, expected: "0.000012"},
		{name: "negative zero after rounding", input: -1e-9, expected: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatFloat(tt.input))
		})
	}
}

func TestFormatCell(t *testing.T) {
	var undefined *float64

	tests := []struct {
		name     string
		input    interface{}
		expected string
	}{
		{name: "nil", input: nil, expected: ""},
		{name: "nil pointer", input: undefined, expected: ""},
		{name: "pointer", input: f64(64.5), expected: "64.5"},
		{name: "float", input: 45.0, expected: "45"},
		{name: "int", input: 35, expected: "35"},
		{name: "int64", input: int64(-7), expected: "-7"},
		{name: "bool", input: true, expected: "true"},
		{name: "string", input: "Monday", expected: "Monday"},
		{name: "date", input: time.Date(2023, 2, 18, 0, 0, 0, 0, time.UTC), expected: "2023-02-18"},
		{name: "unknown type", input: struct{}{}, expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatCell(tt.input))
		})
	}
}

func TestCellValue(t *testing.T) {
	var undefined *float64

	assert.Nil(t, cellValue(undefined))
	assert.Equal(t, 35.0, cellValue(f64(35)))
	assert.Equal(t, "Monday", cellValue("Monday"))
}

func BenchmarkFormatFloat(b *testing.B) {
	values := []float64{0.0, 123.456789, -987.654321, 1234567.890123, 0.000001}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, val := range values {
			_ = formatFloat(val)
		}
	}
}
