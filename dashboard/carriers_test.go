package dashboard

import (
	"reflect"
	"testing"
)

func TestCarriers(t *testing.T) {
	frame := frameWith([]string{"sim_info"},
		map[string]any{"sim_info": `[{"carrier_name": "AT&T"}]`},
		map[string]any{"sim_info": `[{"name": "AT&T"}]`},
		map[string]any{"sim_info": nil},
	)

	got := Carriers(frame)
	if got["AT&T"] != 2 {
		t.Errorf("carriers = %v", got)
	}
}

func TestSlotCarriersStripQualifiers(t *testing.T) {
	frame := frameWith([]string{"Slot 1"},
		map[string]any{"Slot 1": "T-Mobile (310260)"},
		map[string]any{"Slot 1": "T-Mobile"},
		map[string]any{"Slot 1": nil},
	)

	got := SlotCarriers(frame, "Slot 1")
	want := map[string]int{"T-Mobile": 2}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("slot carriers = %v, want %v", got, want)
	}
}

func TestCombinedSlotCarriers(t *testing.T) {
	frame := frameWith([]string{"Slot 1", "Slot 2"},
		map[string]any{"Slot 1": "Verizon", "Slot 2": "AT&T"},
		map[string]any{"Slot 1": "Verizon", "Slot 2": nil},
	)

	got := CombinedSlotCarriers(frame)
	want := map[string]int{"Verizon": 2, "AT&T": 1}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("combined = %v, want %v", got, want)
	}
}

func TestSimCountries(t *testing.T) {
	frame := frameWith([]string{"Sim Country"},
		map[string]any{"Sim Country": "United States (US)"},
		map[string]any{"Sim Country": "Mexico"},
	)

	got := SimCountries(frame)
	want := map[string]int{"United States": 1, "Mexico": 1}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("countries = %v, want %v", got, want)
	}
}

func TestSlotCarriersMissingColumn(t *testing.T) {
	got := SlotCarriers(frameWith([]string{"Model"}), "Slot 1")
	if len(got) != 0 {
		t.Errorf("slot carriers = %v, want empty", got)
	}
}
