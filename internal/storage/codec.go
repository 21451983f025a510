package storage

import (
	"encoding/json"
	"errors"
	"fmt"

	"mendel/internal/model"
)

const (
	CurrentSchemaVersion = 1
	CurrentCodecVersion  = 1
)

var ErrVersionMismatch = errors.New("record version mismatch")

func EncodeRunRecord(r model.RunRecord) ([]byte, error) {
	return json.Marshal(r)
}

func DecodeRunRecord(data []byte) (model.RunRecord, error) {
	var record model.RunRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return model.RunRecord{}, err
	}
	if err := checkVersion(record.VersionedRecord); err != nil {
		return model.RunRecord{}, err
	}
	return record, nil
}

func EncodeHistory(history []model.GenerationStats) ([]byte, error) {
	return json.Marshal(history)
}

func DecodeHistory(data []byte) ([]model.GenerationStats, error) {
	var history []model.GenerationStats
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, err
	}
	return history, nil
}

func EncodeBest(b model.BestRecord) ([]byte, error) {
	return json.Marshal(b)
}

func DecodeBest(data []byte) (model.BestRecord, error) {
	var best model.BestRecord
	if err := json.Unmarshal(data, &best); err != nil {
		return model.BestRecord{}, err
	}
	if err := checkVersion(best.VersionedRecord); err != nil {
		return model.BestRecord{}, err
	}
	return best, nil
}

// Stamp fills in the current schema and codec versions before encoding.
func Stamp(v *model.VersionedRecord) {
	v.SchemaVersion = CurrentSchemaVersion
	v.CodecVersion = CurrentCodecVersion
}

func checkVersion(v model.VersionedRecord) error {
	if v.SchemaVersion != CurrentSchemaVersion || v.CodecVersion != CurrentCodecVersion {
		return fmt.Errorf("%w: schema=%d codec=%d, supported schema=%d codec=%d",
			ErrVersionMismatch, v.SchemaVersion, v.CodecVersion, CurrentSchemaVersion, CurrentCodecVersion)
	}
	return nil
}
