package response

import (
	"encoding/json"
	"net/http"
	"todoapp/shared/constant"
	"todoapp/shared/failure"
	"todoapp/shared/logger"
)

type Error struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

// WithJSON sends a response containing a JSON object
func WithJSON(writer http.ResponseWriter, code int, jsonPayload any) {
	response(writer, code, jsonPayload)
}

// WithNoContent sends an empty 204 response
func WithNoContent(writer http.ResponseWriter) {
	writer.WriteHeader(http.StatusNoContent)
}

// WithError sends an error body carrying the error kind. Server side failures only expose a
// generic message.
func WithError(writer http.ResponseWriter, err error) {
	code := failure.GetCode(err)

	var message string

	switch {
	case code == http.StatusServiceUnavailable:
		message = constant.ResponseErrorUnavailable
	case code >= http.StatusInternalServerError:
		message = constant.ResponseErrorInternal
	default:
		message = failure.GetMessage(err)
	}

	response(writer, code, Error{Code: failure.GetKind(err), Error: message})
}

// WithRequestLimitExceeded sends a default response for when the request limit is exceeded
func WithRequestLimitExceeded(writer http.ResponseWriter) {
	response(writer, http.StatusTooManyRequests, Error{
		Code:  failure.KindRateLimited,
		Error: constant.ResponseErrorRequestLimitExceeded,
	})
}

// WithPreparingShutdown sends a default response for when the server is preparing to shut down
func WithPreparingShutdown(writer http.ResponseWriter) {
	response(writer, http.StatusServiceUnavailable, Error{
		Code:  failure.KindUnavailable,
		Error: constant.ResponseErrorPrepareShutdown,
	})
}

func response(writer http.ResponseWriter, code int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		logger.ErrorWithStack(err)

		writer.WriteHeader(http.StatusInternalServerError)

		return
	}

	writer.Header().Set(constant.RequestHeaderContentType, constant.ContentTypeJSON)
	writer.WriteHeader(code)
	_, err = writer.Write(response)

	if err != nil {
		logger.ErrorWithStack(err)
	}
}
