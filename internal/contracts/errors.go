package contracts

import (
	"errors"
	"fmt"
)

// PreconditionError 입력 계약 위반 (길이 불일치, 알 수 없는 피처 등)
type PreconditionError struct {
	Stage  Stage
	Field  string
	Reason string
}

func (e *PreconditionError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: precondition failed: %s", e.Stage.ShortName(), e.Reason)
	}
	return fmt.Sprintf("%s: precondition failed: %s: %s", e.Stage.ShortName(), e.Field, e.Reason)
}

// EmptyDatasetError 사용할 행이 없거나, 비율 계산의 분모가 0인 경우
type EmptyDatasetError struct {
	Stage  Stage
	Reason string
}

func (e *EmptyDatasetError) Error() string {
	return fmt.Sprintf("%s: empty dataset: %s", e.Stage.ShortName(), e.Reason)
}

// UpstreamDataError 외부 테이블이 없거나 형식이 잘못된 경우 (재시도하지 않음)
type UpstreamDataError struct {
	Source string // file name or other origin
	Line   int    // 1-based, 0 when not line specific
	Column string
	Err    error
}

func (e *UpstreamDataError) Error() string {
	msg := "upstream data: " + e.Source
	if e.Line > 0 {
		msg += fmt.Sprintf(":%d", e.Line)
	}
	if e.Column != "" {
		msg += fmt.Sprintf(" [%s]", e.Column)
	}
	return msg + ": " + e.Err.Error()
}

func (e *UpstreamDataError) Unwrap() error {
	return e.Err
}

// IsEmptyDataset reports whether err carries an EmptyDatasetError
func IsEmptyDataset(err error) bool {
	var target *EmptyDatasetError
	return errors.As(err, &target)
}

// IsPrecondition reports whether err carries a PreconditionError
func IsPrecondition(err error) bool {
	var target *PreconditionError
	return errors.As(err, &target)
}

// IsUpstreamData reports whether err carries an UpstreamDataError
func IsUpstreamData(err error) bool {
	var target *UpstreamDataError
	return errors.As(err, &target)
}
