package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/Mutter0815/PageBuilder/internal/apperr"
	"github.com/Mutter0815/PageBuilder/pkg/i18n"
	"github.com/Mutter0815/PageBuilder/pkg/logx"
)

type problemDTO struct {
	Code    apperr.Code `json:"code"`
	Field   string      `json:"field,omitempty"`
	Message string      `json:"message"`
}

type errorDTO struct {
	Error    string       `json:"error"`
	Code     apperr.Code  `json:"code"`
	Field    string       `json:"field,omitempty"`
	Problems []problemDTO `json:"problems,omitempty"`
}

func statusOf(e *apperr.Error) int {
	switch e.Kind {
	case apperr.KindAuthorization:
		if e.Code == apperr.CodeAuthForbidden {
			return http.StatusForbidden
		}
		return http.StatusUnauthorized
	case apperr.KindValidation:
		switch e.Code {
		case apperr.CodeSlugTaken, apperr.CodeUsernameTaken, apperr.CodeSuperseded:
			return http.StatusConflict
		}
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindTransport:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// errorBody maps err to a status and a localized body. Details of internal
// and transport failures are never sent to the client.
func errorBody(c *gin.Context, err error) (int, errorDTO) {
	tag := langOf(c)

	var probs apperr.Problems
	if errors.As(err, &probs) && len(probs) > 0 {
		out := errorDTO{Code: probs[0].Code, Field: probs[0].Field, Problems: make([]problemDTO, len(probs))}
		status := http.StatusBadRequest
		for i, p := range probs {
			out.Problems[i] = problemDTO{Code: p.Code, Field: p.Field, Message: i18n.T(tag, string(p.Code))}
			if s := statusOf(p); s == http.StatusConflict {
				status = s
			}
		}
		out.Error = out.Problems[0].Message
		return status, out
	}

	e, ok := apperr.As(err)
	if !ok {
		e = apperr.Wrap(apperr.KindInternal, apperr.CodeInternal, err, "unexpected error")
	}
	status := statusOf(e)
	out := errorDTO{Code: e.Code, Error: i18n.T(tag, string(e.Code))}
	switch status {
	case http.StatusInternalServerError, http.StatusServiceUnavailable:
		logx.L().Errorw("request_failed", "rid", requestID(c), "path", c.FullPath(), "code", e.Code, "error", err)
		if status == http.StatusInternalServerError {
			out.Code = apperr.CodeInternal
			out.Error = i18n.T(tag, string(apperr.CodeInternal))
		}
	default:
		out.Field = e.Field
	}
	return status, out
}

func writeError(c *gin.Context, err error) {
	status, body := errorBody(c, err)
	c.JSON(status, body)
}

// bindError turns a gin binding failure into validation problems.
func bindError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.Wrap(apperr.KindValidation, apperr.CodeRequest, err, "malformed request")
	}
	probs := make(apperr.Problems, 0, len(verrs))
	for _, fe := range verrs {
		probs = append(probs, apperr.Validation(codeForTag(fe), fieldPath(fe), "%s failed %s", fe.Namespace(), fe.Tag()))
	}
	return probs
}

func codeForTag(fe validator.FieldError) apperr.Code {
	switch fe.Field() {
	case "slug":
		return apperr.CodeSlugInvalid
	case "backgroundColor":
		return apperr.CodeColorInvalid
	case "name":
		return apperr.CodeNameRequired
	}
	return apperr.CodeRequest
}

// fieldPath drops the struct name from the validator namespace.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}
