package types

import (
	"encoding/json"
	"fmt"

	"github.com/okvee/rpctoast/types"
)

const (
	CodeInternal       = 1
	CodeUnknownCommand = 2
	CodeBadRequest     = 3
)

type (
	InvokeRequest = types.InvocationRequest

	InvokeResponse struct {
		Result json.RawMessage `json:"result,omitempty"`
	}

	ErrResponse struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	}

	Response[Payload any] struct {
		Data  Payload     `json:"data,omitempty"`
		Error ErrResponse `json:"error,omitempty"`
	}
)

func (rsp *Response[Payload]) Unwrap() (*Payload, error) {
	var emptyErr ErrResponse
	if rsp.Error != emptyErr {
		return nil, fmt.Errorf("rpc error: code=%d message='%s'", rsp.Error.Code, rsp.Error.Message)
	}
	return &rsp.Data, nil
}
