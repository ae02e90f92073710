package element

import (
	"testing"

	ferrors "github.com/matzehuels/formwork/pkg/errors"
)

func TestRegistryBuiltins(t *testing.T) {
	r := NewRegistry()

	variants := r.Variants()
	if len(variants) != len(Kinds) {
		t.Fatalf("variants = %d, want %d", len(variants), len(Kinds))
	}
	for i := 1; i < len(variants); i++ {
		if variants[i-1].Kind >= variants[i].Kind {
			t.Errorf("variants not sorted at %d: %s >= %s", i, variants[i-1].Kind, variants[i].Kind)
		}
	}

	for _, kind := range Kinds {
		t.Run(string(kind), func(t *testing.T) {
			e, err := r.Create(kind)
			if err != nil {
				t.Fatalf("Create: %v", err)
			}
			if e.ID == "" || e.Kind != kind {
				t.Errorf("id = %q, kind = %s", e.ID, e.Kind)
			}
			if e.X != 0 || e.Y != 0 {
				t.Errorf("position = (%g,%g), want origin", e.X, e.Y)
			}
			if err := e.Validate(); err != nil {
				t.Errorf("default element invalid: %v", err)
			}
			if (e.Font != nil) != kind.HasTypography() {
				t.Errorf("font present = %v, want %v", e.Font != nil, kind.HasTypography())
			}
		})
	}
}

func TestRegistryDefaults(t *testing.T) {
	r := NewRegistry()

	text, _ := r.Create(KindText)
	if text.Width != 120 || text.Height != 24 {
		t.Errorf("text size = %gx%g, want 120x24", text.Width, text.Height)
	}

	table, _ := r.Create(KindTable)
	if table.Table.Rows != 3 || table.Table.Columns != 3 {
		t.Errorf("table = %dx%d, want 3x3", table.Table.Rows, table.Table.Columns)
	}

	bc, _ := r.Create(KindBarcode)
	if bc.Barcode.Symbology != SymbologyCode128 || bc.Barcode.Value != "12345678" {
		t.Errorf("barcode = %+v", bc.Barcode)
	}

	a, _ := r.Create(KindText)
	if a.ID == text.ID {
		t.Error("Create reused an ID")
	}
}

func TestRegistryUnknown(t *testing.T) {
	r := NewRegistry()
	_, err := r.Create("sparkline")
	if !ferrors.Is(err, ferrors.ErrCodeUnknownVariant) {
		t.Errorf("Create(sparkline) = %v, want unknown variant", err)
	}
	if _, ok := r.Lookup("sparkline"); ok {
		t.Error("Lookup found an unregistered kind")
	}
}

func TestRegistryRegister(t *testing.T) {
	r := NewRegistry()
	err := r.Register(Variant{
		Kind:        "qrcode",
		DisplayName: "QR Code",
		Category:    CategoryData,
		Factory: func() *Element {
			e := sized(50, 50)
			e.Barcode = &BarcodeData{Symbology: SymbologyQR, Value: "https://example.com"}
			return e
		},
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	e, err := r.Create("qrcode")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if e.Kind != "qrcode" || e.Barcode.Symbology != SymbologyQR {
		t.Errorf("created %+v", e)
	}
	if len(r.Variants()) != len(Kinds)+1 {
		t.Errorf("variants = %d", len(r.Variants()))
	}

	// Registries are independent.
	if _, ok := NewRegistry().Lookup("qrcode"); ok {
		t.Error("registration leaked into a new registry")
	}

	if err := r.Register(Variant{Kind: "nofactory"}); err == nil {
		t.Error("Register without factory should fail")
	}
	if err := r.Register(Variant{Factory: func() *Element { return sized(1, 1) }}); err == nil {
		t.Error("Register without kind should fail")
	}
}

func TestRegisteredKindProperties(t *testing.T) {
	r := NewRegistry()
	err := r.Register(Variant{
		Kind:        "stamp",
		DisplayName: "Stamp",
		Category:    CategoryMedia,
		Typography:  true,
		Factory: func() *Element {
			e := sized(40, 40)
			e.Font = defaultFont()
			return e
		},
		Properties: []Property{StringAttribute("Motto", "PAID")},
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	e, err := r.Create("stamp")
	if err != nil {
		t.Fatal(err)
	}
	if err := e.Validate(); err != nil {
		t.Fatalf("Validate() after Create = %v", err)
	}

	for _, name := range []string{"X", "Opacity", "FontSize", "Motto"} {
		if !HasProperty("stamp", name) {
			t.Errorf("missing property %s", name)
		}
	}
	if got, _ := e.Get("Motto"); got != "PAID" {
		t.Errorf("Motto default = %v, want PAID", got)
	}

	sets := []struct {
		name  string
		value any
	}{
		{"X", 5.0},
		{"FontSize", 14},
		{"Motto", "VOID"},
	}
	for _, s := range sets {
		if _, changed, err := e.Set(s.name, s.value); err != nil || !changed {
			t.Errorf("Set(%s) = %v, changed %v", s.name, err, changed)
		}
	}
	if e.X != 5 || e.Font.Size != 14 || e.Attributes["Motto"] != "VOID" {
		t.Errorf("element after sets = %+v", e)
	}
	if err := e.Validate(); err != nil {
		t.Errorf("Validate() after sets = %v", err)
	}

	c := e.Clone()
	c.Attributes["Motto"] = "COPY"
	if e.Attributes["Motto"] != "VOID" {
		t.Error("Clone shares Attributes")
	}

	if _, _, err := e.Set("FontSize", -1.0); err != nil {
		t.Fatal(err)
	}
	if !ferrors.IsValidation(e.Validate()) {
		t.Error("font rules not applied to a registered kind")
	}

	bad := Variant{Kind: "broken", Factory: func() *Element { return sized(1, 1) }, Properties: []Property{{Name: "Half"}}}
	if err := r.Register(bad); err == nil {
		t.Error("Register accepted a property without accessors")
	}
	if _, ok := r.Lookup("broken"); ok {
		t.Error("failed registration was recorded")
	}

	unknown := sized(1, 1)
	unknown.Kind = "never-registered"
	if !ferrors.Is(unknown.Validate(), ferrors.ErrCodeUnknownVariant) {
		t.Error("unregistered kind passed validation")
	}
}

func TestRegisterBuiltinKeepsProperties(t *testing.T) {
	r := NewRegistry()
	v, _ := r.Lookup(KindRectangle)
	v.Properties = []Property{StringAttribute("Hatch", "none")}
	if err := r.Register(v); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { installProperties(Variant{Kind: KindRectangle}) })
	if !HasProperty(KindRectangle, "BorderWidth") || !HasProperty(KindRectangle, "Hatch") {
		t.Error("re-registering a built-in lost or missed properties")
	}
	if HasProperty(KindEllipse, "Hatch") {
		t.Error("property leaked into another kind")
	}
}

func TestClone(t *testing.T) {
	e := newElement(t, KindTable)
	_ = e.Table.SetContent(0, 0, "a")

	c := e.Clone()
	if c.ID == e.ID {
		t.Error("Clone kept the ID")
	}
	c.Table.Cells[0].Content = "b"
	c.Font.Size = 30
	if e.Table.Cells[0].Content != "a" || e.Font.Size == 30 {
		t.Error("Clone shares payload with the original")
	}

	cp := e.Copy()
	if cp.ID != e.ID {
		t.Error("Copy changed the ID")
	}
}
