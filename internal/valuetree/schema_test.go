package valuetree

import (
	"path/filepath"
	"runtime"
	"testing"
)

func schemasDir(t *testing.T) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("could not determine caller for schemas dir")
	}
	return filepath.Join(filepath.Dir(file), "..", "..", "schemas")
}

func TestValidateBookmarkFile(t *testing.T) {
	v, err := NewSchemaValidator(schemasDir(t), "bookmark.schema.json", "bookmark_file.schema.json")
	if err != nil {
		t.Fatalf("NewSchemaValidator: %v", err)
	}
	good := []byte(`[{"name":"1836","description":"start","date":0,"initial_camera_x":100,"initial_camera_y":50}]`)
	if _, err := v.ValidateJSON("bookmark_file.schema.json", good); err != nil {
		t.Errorf("expected valid bookmark file, got %v", err)
	}
	bad := []byte(`[{"name":"1836"}]`)
	if _, err := v.ValidateJSON("bookmark_file.schema.json", bad); err == nil {
		t.Error("expected validation error for missing required fields")
	}
}

func TestValidateSpecialAdjacencyRow(t *testing.T) {
	v, err := NewSchemaValidator(schemasDir(t), "special_adjacency.schema.json")
	if err != nil {
		t.Fatalf("NewSchemaValidator: %v", err)
	}
	good := []byte(`{"from":"P1","to":"P2","type":"land"}`)
	if _, err := v.ValidateJSON("special_adjacency.schema.json", good); err != nil {
		t.Errorf("expected valid row, got %v", err)
	}
	bad := []byte(`{"from":"P1","to":"P2","type":"river"}`)
	if _, err := v.ValidateJSON("special_adjacency.schema.json", bad); err == nil {
		t.Error("expected validation error for unknown type")
	}
}
