package upstream

import (
	"encoding/json"
	"testing"
)

type animal struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
	RoleID int    `json:"roleId"`
}

func TestParseBodyEnglishEnvelope(t *testing.T) {
	res := parseBody([]byte(`{"success": true, "message": "listed", "data": [{"id": 1}]}`))
	if !res.OK() || res.Message != "listed" {
		t.Fatalf("res = %+v", res)
	}
	if string(res.Data) != `[{"id": 1}]` {
		t.Fatalf("data = %s", res.Data)
	}
}

func TestParseBodySpanishEnvelope(t *testing.T) {
	res := parseBody([]byte(`{"exitoso": false, "mensaje": "no encontrado", "registro": null}`))
	if res.OK() {
		t.Fatal("exitoso=false must not be OK")
	}
	if res.Message != "no encontrado" {
		t.Fatalf("message = %q", res.Message)
	}
}

func TestParseBodyBareArray(t *testing.T) {
	res := parseBody([]byte(`[{"id": 1}, {"id": 2}]`))
	if !res.OK() {
		t.Fatal("bare payload defaults to success")
	}
	if string(res.Data) != `[{"id": 1}, {"id": 2}]` {
		t.Fatalf("data = %s", res.Data)
	}
}

func TestParseBodyEmpty(t *testing.T) {
	res := parseBody(nil)
	if !res.OK() || res.Data != nil {
		t.Fatalf("res = %+v", res)
	}
}

func TestNormalizeKeysSpanishAliases(t *testing.T) {
	in := json.RawMessage(`{"Nombre": "Collar", "Activo": true, "IdRol": 3}`)
	out := NormalizeKeys(in)

	var m map[string]any
	if err := json.Unmarshal(out, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if m["name"] != "Collar" {
		t.Fatalf("name = %v, map = %v", m["name"], m)
	}
	if m["active"] != true {
		t.Fatalf("active = %v, map = %v", m["active"], m)
	}
	if m["roleId"] != float64(3) {
		t.Fatalf("roleId = %v, map = %v", m["roleId"], m)
	}
}

func TestNormalizeKeysPascalCase(t *testing.T) {
	in := json.RawMessage(`{"Name": "Collar", "Items": [{"Active": false}]}`)
	out := NormalizeKeys(in)

	var m map[string]any
	if err := json.Unmarshal(out, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if m["name"] != "Collar" {
		t.Fatalf("map = %v", m)
	}
	items, ok := m["items"].([]any)
	if !ok || len(items) != 1 {
		t.Fatalf("items = %v", m["items"])
	}
	if items[0].(map[string]any)["active"] != false {
		t.Fatalf("nested key not normalized: %v", items[0])
	}
}

func TestDecodeListAcceptsArrayAndSingleObject(t *testing.T) {
	arr, err := DecodeList[animal](json.RawMessage(`[{"Nombre": "Luna", "Activo": true}]`))
	if err != nil {
		t.Fatalf("array: %v", err)
	}
	if len(arr) != 1 || arr[0].Name != "Luna" || !arr[0].Active {
		t.Fatalf("arr = %+v", arr)
	}

	one, err := DecodeList[animal](json.RawMessage(`{"nombre": "Max"}`))
	if err != nil {
		t.Fatalf("object: %v", err)
	}
	if len(one) != 1 || one[0].Name != "Max" {
		t.Fatalf("one = %+v", one)
	}

	empty, err := DecodeList[animal](json.RawMessage(`null`))
	if err != nil || empty != nil {
		t.Fatalf("null: %v %v", empty, err)
	}
}

func TestDecodeOne(t *testing.T) {
	got, err := DecodeOne[animal](json.RawMessage(`{"Id": 5, "Estado": true}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ID != 5 || !got.Active {
		t.Fatalf("got = %+v", got)
	}

	missing, err := DecodeOne[animal](json.RawMessage(` `))
	if err != nil || missing != nil {
		t.Fatalf("blank: %v %v", missing, err)
	}
}
