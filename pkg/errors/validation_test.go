package errors

import "testing"

func TestValidateUnwrapParams(t *testing.T) {
	tests := []struct {
		name           string
		angleThreshold float64
		minIslandFaces int
		islandMargin   float64
		wantErr        bool
	}{
		{"defaults", 30, 1, 0.02, false},
		{"zero margin", 45, 0, 0, false},
		{"max threshold", 180, 10, 0.5, false},

		{"negative threshold", -1, 1, 0.02, true},
		{"threshold over 180", 181, 1, 0.02, true},
		{"negative min faces", 30, -1, 0.02, true},
		{"negative margin", 30, 1, -0.1, true},
		{"margin of one", 30, 1, 1.0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUnwrapParams(tt.angleThreshold, tt.minIslandFaces, tt.islandMargin)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateUnwrapParams() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidParams) {
				t.Errorf("wrong error code: %v", err)
			}
		})
	}
}

func TestValidateFilePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"relative", "out/mesh.obj", false},
		{"absolute", "/tmp/mesh.obj", false},
		{"filename only", "mesh.obj", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 600)), true},
		{"null byte", "foo\x00bar", true},
		{"control char", "foo\x01bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFilePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFilePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateRedisAddr(t *testing.T) {
	if err := ValidateRedisAddr("localhost:6379"); err != nil {
		t.Errorf("valid addr rejected: %v", err)
	}
	if err := ValidateRedisAddr(""); err == nil {
		t.Error("empty addr accepted")
	}
	if err := ValidateRedisAddr("localhost"); err == nil {
		t.Error("addr without port accepted")
	}
}

func TestValidateMongoURI(t *testing.T) {
	if err := ValidateMongoURI("mongodb://localhost:27017"); err != nil {
		t.Errorf("valid URI rejected: %v", err)
	}
	if err := ValidateMongoURI("mongodb+srv://cluster.example.com"); err != nil {
		t.Errorf("valid srv URI rejected: %v", err)
	}
	if err := ValidateMongoURI(""); err == nil {
		t.Error("empty URI accepted")
	}
	if err := ValidateMongoURI("http://localhost"); err == nil {
		t.Error("non-mongodb scheme accepted")
	}
}
