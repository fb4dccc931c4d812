package controllers

type envelope map[string]interface{}

type acceptRequestBody struct {
	PatientName string `json:"patientName" validate:"required"`
}

type rejectRequestBody struct {
	PatientName string `json:"patientName" validate:"required"`
}

type acceptRequestResponse struct {
	PatientName string `json:"patientName"`
	Status      string `json:"status"`
	Eta         string `json:"eta,omitempty"`
}

func NewAcceptRequestResponse(patientName, eta string) acceptRequestResponse {
	return acceptRequestResponse{
		PatientName: patientName,
		Status:      StateAccepted.String(),
		Eta:         eta,
	}
}

type rejectRequestResponse struct {
	PatientName string `json:"patientName"`
	Status      string `json:"status"`
}

func NewRejectRequestResponse(patientName string) rejectRequestResponse {
	return rejectRequestResponse{
		PatientName: patientName,
		Status:      StateRejected.String(),
	}
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
