package server

import "github.com/bokysan/tonconv/internal/address"

// ConvertRequest is the body of `POST /api/v1/convert`
type ConvertRequest struct {
	Address string `json:"address"`
}

// ConvertResponse is returned by the convert endpoint and sent for every websocket message
type ConvertResponse struct {
	Address string `json:"address"`
	Result  string `json:"result"`
	Valid   bool   `json:"valid"`
}

// ErrorResponse is returned when the request itself could not be understood
type ErrorResponse struct {
	Error string `json:"error"`
}

func NewConvertResponse(input string) ConvertResponse {
	raw, err := address.ToRaw(input)
	if err != nil {
		return ConvertResponse{
			Address: input,
			Result:  address.InvalidAddressFormat,
			Valid:   false,
		}
	}
	return ConvertResponse{
		Address: input,
		Result:  raw,
		Valid:   true,
	}
}
