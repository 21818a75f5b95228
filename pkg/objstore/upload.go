package objstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"github.com/dreams-labs/datacore/pkg/core"
)

// UploadJSON marshals v and stores it under folder/name.json, returning
// the object key.
func UploadJSON(ctx context.Context, s Store, folder, name string, v any) (string, error) {
	key, err := objectKey(folder, name, ".json")
	if err != nil {
		return "", err
	}

	data, err := json.Marshal(v)
	if err != nil {
		return "", core.E(core.KindValidation, "objstore.upload_json", key, err)
	}

	if err := s.Put(ctx, key, bytes.NewReader(data), int64(len(data)), "application/json"); err != nil {
		return "", err
	}
	return key, nil
}

// UploadCSV encodes a query result as CSV and stores it under
// folder/name.csv, returning the object key.
func UploadCSV(ctx context.Context, s Store, folder, name string, result *core.QueryResult) (string, error) {
	key, err := objectKey(folder, name, ".csv")
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := EncodeCSV(&buf, result); err != nil {
		return "", err
	}

	if err := s.Put(ctx, key, bytes.NewReader(buf.Bytes()), int64(buf.Len()), "text/csv"); err != nil {
		return "", err
	}
	return key, nil
}

func objectKey(folder, name, ext string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", core.E(core.KindValidation, "objstore.upload", folder,
			fmt.Errorf("object name is required"))
	}
	if !strings.HasSuffix(name, ext) {
		name += ext
	}
	if folder == "" {
		return name, nil
	}
	return path.Join(folder, name), nil
}
