package web

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDropTarget(t *testing.T) {
	tests := []struct {
		input   string
		want    DropTarget
		wantErr bool
	}{
		{input: "inventory", want: DropTarget{Inventory: true}},
		{input: "slot:u1:0:5", want: DropTarget{UnitID: "u1", Row: 0, Col: 5}},
		{input: "slot:0190a3c4-7e1f-7000-8000-000000000001:2:3", want: DropTarget{UnitID: "0190a3c4-7e1f-7000-8000-000000000001", Row: 2, Col: 3}},
		{input: "slot:ns:unit:1:1", want: DropTarget{UnitID: "ns:unit", Row: 1, Col: 1}},
		{input: "slot:u1:-1:0", want: DropTarget{UnitID: "u1", Row: -1, Col: 0}},
		{input: "", wantErr: true},
		{input: "Inventory", wantErr: true},
		{input: "slot:u1:0", wantErr: true},
		{input: "slot::0:0", wantErr: true},
		{input: "slot:u1:a:0", wantErr: true},
		{input: "slot:u1:0:b", wantErr: true},
		{input: "shelf:u1:0:0", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDropTarget(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, errBadRequest)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.input, got.String())
		})
	}
}
