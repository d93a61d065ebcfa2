package errors

import (
	stderrors "errors"
	"io"
	"net/http"
	"testing"

	"chartfolio/domain/core"
)

func TestGetCodeFromDomainErrors(t *testing.T) {
	cases := []struct {
		err  error
		code string
		http int
	}{
		{nil, "", http.StatusOK},
		{core.NewLoadError("/blog/data/anomaly.json", io.EOF), CodeLoadError, http.StatusBadGateway},
		{core.NewContainerMissingError("chart"), CodeContainerMissing, http.StatusNotFound},
		{core.NewDegenerateError("scatter", 1, 2), CodeDegenerateData, http.StatusUnprocessableEntity},
		{core.ErrUnknownChart, CodeNotFound, http.StatusNotFound},
		{InvalidInput("width must be positive"), CodeInvalidInput, http.StatusBadRequest},
		{Unauthorized("log in first"), CodeUnauthorized, http.StatusUnauthorized},
		{io.ErrClosedPipe, CodeInternalError, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := GetCode(tc.err); got != tc.code {
			t.Errorf("GetCode(%v) = %q, want %q", tc.err, got, tc.code)
		}
		if got := HTTPStatus(tc.err); got != tc.http {
			t.Errorf("HTTPStatus(%v) = %d, want %d", tc.err, got, tc.http)
		}
	}
}

func TestWrapKeepsCodeAndCause(t *testing.T) {
	base := core.NewLoadError("/x.json", io.ErrUnexpectedEOF)
	err := Wrapf(base, "building %s", "anomaly")

	if GetCode(err) != CodeLoadError {
		t.Fatalf("Expected LOAD_ERROR, got %s", GetCode(err))
	}
	if !stderrors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("Expected wrapped error to keep its cause")
	}
	if err.Error() != "building anomaly: load /x.json: unexpected EOF" {
		t.Errorf("Unexpected message %q", err.Error())
	}
	if Wrap(nil, "x") != nil {
		t.Errorf("Wrap(nil) must be nil")
	}

	coded := WithCode(CodeInvalidInput, io.EOF)
	if GetCode(coded) != CodeInvalidInput || !IsAppError(coded) {
		t.Errorf("Expected INVALID_INPUT app error, got %v", coded)
	}
}
