package storage_test

import (
	"testing"

	"github.com/earthdaily/geosys-go/interface/storage"
)

func TestParseURI(t *testing.T) {
	tests := []struct {
		uri     string
		bucket  string
		prefix  string
		wantErr bool
	}{
		{"s3://geosys-earthdaily-agro/user1/mrts/task1", "geosys-earthdaily-agro", "user1/mrts/task1", false},
		{"s3://bucket", "bucket", "", false},
		{"gs://bucket/prefix", "", "", true},
		{"not-a-uri", "", "", true},
	}
	for _, tt := range tests {
		bucket, prefix, err := storage.ParseURI(tt.uri)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseURI(%s): expected an error", tt.uri)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseURI(%s): %v", tt.uri, err)
		} else if bucket != tt.bucket || prefix != tt.prefix {
			t.Errorf("ParseURI(%s) = %s, %s", tt.uri, bucket, prefix)
		}
	}
}
