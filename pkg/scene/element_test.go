package scene

import (
	"encoding/json"
	"slices"
	"testing"
)

func parseOne(t *testing.T, raw string) *Element {
	t.Helper()
	doc, err := Parse([]byte("[" + raw + "]"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return doc.Elements[0]
}

func TestElementKnownFields(t *testing.T) {
	doc, err := Parse(readFixture(t, "flow.excalidraw"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	e := doc.Elements[0]

	if e.ID != "box-a" || e.Type != "rectangle" {
		t.Errorf("identity = %s/%s, want box-a/rectangle", e.ID, e.Type)
	}
	if e.X != 100 || e.Y != 120.5 || e.Width != 180 || e.Height != 80 {
		t.Errorf("geometry = %v,%v %vx%v", e.X, e.Y, e.Width, e.Height)
	}
	if e.StrokeColor == nil || *e.StrokeColor != "#1e1e1e" {
		t.Errorf("StrokeColor = %v", e.StrokeColor)
	}
	if e.GroupIDs == nil || len(e.GroupIDs) != 0 {
		t.Errorf("GroupIDs = %#v, want empty non-nil", e.GroupIDs)
	}
	if e.FrameID != nil {
		t.Errorf("FrameID = %v, want nil for null", *e.FrameID)
	}
	if !e.Roundness.IsRecord() {
		t.Error("Roundness should be a record")
	}
	if e.Deleted() {
		t.Error("Deleted() = true, want false")
	}
	if got := len(e.BoundElements); got != 2 || e.BoundElements[1].Type != "arrow" || e.BoundElements[1].ID != "arrow-1" {
		t.Errorf("BoundElements = %v", e.BoundElements)
	}
	if e.Updated == nil || *e.Updated != 1718000000000 {
		t.Errorf("Updated = %v", e.Updated)
	}
	if got, want := e.ExtraKeys(), []string{"customData"}; !slices.Equal(got, want) {
		t.Errorf("ExtraKeys() = %v, want %v", got, want)
	}
}

func TestElementAbsentStaysAbsent(t *testing.T) {
	e := parseOne(t, `{"id": "a", "type": "line", "x": 0, "y": 0, "width": 1, "height": 1}`)

	if e.Angle != nil || e.GroupIDs != nil || e.BoundElements != nil || e.IsDeleted != nil {
		t.Error("absent optional fields should decode to nil")
	}
	if e.Rotation() != 0 {
		t.Errorf("Rotation() = %v, want 0", e.Rotation())
	}
	if _, ok := e.Field("angle"); ok {
		t.Error("Field(angle) reported present")
	}

	out, err := json.Marshal(e)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `{"id":"a","type":"line","x":0,"y":0,"width":1,"height":1}`
	if string(out) != want {
		t.Errorf("Marshal() = %s, want %s", out, want)
	}
}

func TestElementFieldLookup(t *testing.T) {
	e := parseOne(t, `{"id": "a", "type": "rectangle", "x": 1, "y": 2, "width": 3, "height": 4,
		"groupIds": ["g"], "opacity": 50, "vendor": {"k": 1}}`)

	tests := []struct {
		name string
		want string
	}{
		{"id", `"a"`},
		{"x", `1`},
		{"groupIds", `["g"]`},
		{"opacity", `50`},
		{"vendor", `{"k":1}`},
	}
	for _, tt := range tests {
		v, ok := e.Field(tt.name)
		if !ok {
			t.Errorf("Field(%q) missing", tt.name)
			continue
		}
		got, _ := json.Marshal(v)
		if string(got) != tt.want {
			t.Errorf("Field(%q) = %s, want %s", tt.name, got, tt.want)
		}
	}
	if _, ok := e.Field("nope"); ok {
		t.Error("Field(nope) reported present")
	}

	// Values handed out must not alias the element.
	v, _ := e.Field("groupIds")
	v.([]string)[0] = "mutated"
	if e.GroupIDs[0] != "g" {
		t.Error("Field returned a slice sharing memory with the element")
	}
}

func TestElementDeleted(t *testing.T) {
	e := parseOne(t, `{"id": "a", "type": "rectangle", "x": 0, "y": 0, "width": 1, "height": 1, "isDeleted": true}`)
	if !e.Deleted() {
		t.Error("Deleted() = false, want true")
	}
}

func TestNodeView(t *testing.T) {
	doc, err := Parse(readFixture(t, "flow.excalidraw"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	label := AsNode(doc.Elements[1])

	if label.Text == nil || *label.Text != "API" {
		t.Errorf("Text = %v, want API", label.Text)
	}
	if label.FontFamily == nil || *label.FontFamily != 5 {
		t.Errorf("FontFamily = %v, want 5", label.FontFamily)
	}
	if label.ContainerID == nil || *label.ContainerID != "box-a" {
		t.Errorf("ContainerID = %v, want box-a", label.ContainerID)
	}
	if label.LineHeight == nil || *label.LineHeight != 1.25 {
		t.Errorf("LineHeight = %v, want 1.25", label.LineHeight)
	}

	fields := label.Fields()
	if v, ok := fields.Get("text"); !ok || v != "API" {
		t.Errorf("Fields()[text] = %v, want typed string", v)
	}
	if v, ok := fields.Get("baseline"); !ok || string(v.(json.RawMessage)) != "18" {
		t.Errorf("Fields()[baseline] = %v, want raw 18", v)
	}

	box := AsNode(doc.Elements[0])
	if box.Text != nil || box.FontSize != nil {
		t.Error("shape without text should have no text fields")
	}
}

func TestNodeViewKeepsUncoercibleValues(t *testing.T) {
	e := parseOne(t, `{"id": "t", "type": "text", "x": 0, "y": 0, "width": 1, "height": 1, "fontSize": "large"}`)
	n := AsNode(e)

	if n.FontSize != nil {
		t.Errorf("FontSize = %v, want nil", *n.FontSize)
	}
	v, ok := n.Field("fontSize")
	if ok {
		t.Errorf("typed Field(fontSize) = %v, want absent", v)
	}
	out, err := json.Marshal(n)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `{"id":"t","type":"text","x":0,"y":0,"width":1,"height":1,"fontSize":"large"}`
	if string(out) != want {
		t.Errorf("Marshal() = %s, want %s", out, want)
	}
}

func TestEdgeView(t *testing.T) {
	doc, err := Parse(readFixture(t, "flow.excalidraw"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	edges := doc.Edges()
	if len(edges) != 1 {
		t.Fatalf("edges = %d, want 1", len(edges))
	}
	e := edges[0]

	if src, ok := e.SourceID(); !ok || src != "box-a" {
		t.Errorf("SourceID() = %q, %v, want box-a", src, ok)
	}
	if dst, ok := e.TargetID(); !ok || dst != "db" {
		t.Errorf("TargetID() = %q, %v, want db", dst, ok)
	}
	if want := []Point{{0, 0}, {70.25, -12}, {140, 0}}; !slices.Equal(e.Points, want) {
		t.Errorf("Points = %v, want %v", e.Points, want)
	}
	if e.StartArrowhead != nil {
		t.Errorf("StartArrowhead = %v, want nil", *e.StartArrowhead)
	}
	if e.EndArrowhead == nil || *e.EndArrowhead != "arrow" {
		t.Errorf("EndArrowhead = %v, want arrow", e.EndArrowhead)
	}
	if !slices.Equal(e.EndBinding.FixedPoint, []float64{0.5, 1}) {
		t.Errorf("EndBinding.FixedPoint = %v", e.EndBinding.FixedPoint)
	}
	if e.StartBinding.Gap == nil || *e.StartBinding.Gap != 4 {
		t.Errorf("StartBinding.Gap = %v", e.StartBinding.Gap)
	}

	// Unknown binding fields survive through the typed view.
	v, _ := e.Field("startBinding")
	out, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `{"elementId":"box-a","focus":0.1,"gap":4,"mode":"orbit"}`
	if string(out) != want {
		t.Errorf("startBinding = %s, want %s", out, want)
	}
}

func TestNestedRecordsKeepUnknownFields(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{
			"bound element extras",
			`{"id":"a","type":"rectangle","x":0,"y":0,"width":1,"height":1,"boundElements":[{"type":"arrow","id":"e","futureFlag":true}]}`,
		},
		{
			"binding fixed point triple",
			`{"id":"e","type":"arrow","x":0,"y":0,"width":1,"height":1,"startBinding":{"elementId":"a","fixedPoint":[0.5,1,0]}}`,
		},
		{
			"point triples",
			`{"id":"e","type":"arrow","x":0,"y":0,"width":1,"height":1,"points":[[0,0,1],[5,5,1]]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := parseOne(t, tt.raw)
			out, err := json.Marshal(e)
			if err != nil {
				t.Fatalf("Marshal: %v", err)
			}
			if string(out) != tt.raw {
				t.Errorf("Marshal() = %s, want %s", out, tt.raw)
			}
			if !e.IsArrow() {
				return
			}
			out, err = json.Marshal(AsEdge(e))
			if err != nil {
				t.Fatalf("Marshal(edge): %v", err)
			}
			if string(out) != tt.raw {
				t.Errorf("Marshal(edge) = %s, want %s", out, tt.raw)
			}
		})
	}
}

func TestEdgeKeepsNonPairPointsRaw(t *testing.T) {
	e := AsEdge(parseOne(t, `{"id": "e", "type": "arrow", "x": 0, "y": 0, "width": 1, "height": 1, "points": [[0, 0, 1]]}`))
	if e.Points != nil {
		t.Errorf("Points = %v, want nil for non-pair vertices", e.Points)
	}
	v, ok := e.Field("points")
	if !ok {
		t.Fatal("Field(points) reported absent")
	}
	out, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(out) != `[[0,0,1]]` {
		t.Errorf("points = %s, want [[0,0,1]]", out)
	}
}

func TestEdgeUnresolvedBindings(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantStart bool
		wantEnd   bool
	}{
		{"no bindings", `{"id": "e", "type": "arrow", "x": 0, "y": 0, "width": 1, "height": 1}`, false, false},
		{"null start", `{"id": "e", "type": "arrow", "x": 0, "y": 0, "width": 1, "height": 1, "startBinding": null, "endBinding": {"elementId": "b"}}`, false, true},
		{"empty target", `{"id": "e", "type": "arrow", "x": 0, "y": 0, "width": 1, "height": 1, "startBinding": {"elementId": ""}, "endBinding": {"elementId": "b"}}`, false, true},
		{"missing elementId", `{"id": "e", "type": "arrow", "x": 0, "y": 0, "width": 1, "height": 1, "startBinding": {"elementId": "a"}, "endBinding": {"focus": 0}}`, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := AsEdge(parseOne(t, tt.raw))
			if _, ok := e.SourceID(); ok != tt.wantStart {
				t.Errorf("SourceID() ok = %v, want %v", ok, tt.wantStart)
			}
			if _, ok := e.TargetID(); ok != tt.wantEnd {
				t.Errorf("TargetID() ok = %v, want %v", ok, tt.wantEnd)
			}
		})
	}
}

func TestRoundnessForms(t *testing.T) {
	tests := []struct {
		raw      string
		isRecord bool
		style    int64
	}{
		{`3`, false, 3},
		{`{"type": 2}`, true, 2},
		{`{"type": 3, "value": 32}`, true, 3},
	}

	for _, tt := range tests {
		var r Roundness
		if err := json.Unmarshal([]byte(tt.raw), &r); err != nil {
			t.Fatalf("Unmarshal(%s): %v", tt.raw, err)
		}
		if r.IsRecord() != tt.isRecord {
			t.Errorf("%s: IsRecord() = %v, want %v", tt.raw, r.IsRecord(), tt.isRecord)
		}
		if style, ok := r.Type(); !ok || style != tt.style {
			t.Errorf("%s: Type() = %d, %v, want %d", tt.raw, style, ok, tt.style)
		}
		out, err := json.Marshal(r)
		if err != nil {
			t.Fatalf("Marshal: %v", err)
		}
		var got, want any
		_ = json.Unmarshal(out, &got)
		_ = json.Unmarshal([]byte(tt.raw), &want)
		if !jsonEqual(got, want) {
			t.Errorf("Marshal(%s) = %s", tt.raw, out)
		}
	}

	preset := NewRoundnessPreset(1)
	if style, _ := preset.Type(); style != 1 {
		t.Errorf("NewRoundnessPreset(1).Type() = %d", style)
	}
}

func jsonEqual(a, b any) bool {
	x, _ := json.Marshal(a)
	y, _ := json.Marshal(b)
	return string(x) == string(y)
}

func TestFieldNameTables(t *testing.T) {
	if got := ElementFieldNames(); got[0] != "id" || !slices.Contains(got, "boundElements") {
		t.Errorf("ElementFieldNames() = %v", got)
	}
	if !slices.Contains(NodeFieldNames(), "containerId") {
		t.Error("NodeFieldNames() missing containerId")
	}
	if !slices.Contains(EdgeFieldNames(), "startBinding") {
		t.Error("EdgeFieldNames() missing startBinding")
	}
}
