package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"

	helper "github.com/lifeline-ems/corridor/pkg/http/router/routerhelper"
)

type coordinationAPI struct {
	hub *Hub
	log *zap.Logger
}

func New(hub *Hub, log *zap.Logger) *coordinationAPI {
	return &coordinationAPI{
		hub: hub,
		log: log,
	}
}

func (api *coordinationAPI) Routes(group *helper.RouteGroup) {
	group.POST("/accept-request", api.acceptRequest)
	group.POST("/reject-request", api.rejectRequest)
	group.GET("/trafficLights", api.listTrafficLights)
}

func (api *coordinationAPI) acceptRequest(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var request acceptRequestBody
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		api.BadRequestResponse(w, r, fmt.Errorf("invalid request body: %w", err))
		return
	}

	if !api.validateBody(w, r, &request) {
		return
	}

	eta, err := api.hub.Accept(r.Context(), request.PatientName)
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	if err := api.writeJSON(w, http.StatusOK,
		envelope{"data": NewAcceptRequestResponse(request.PatientName, eta)}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
		return
	}
}

func (api *coordinationAPI) rejectRequest(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var request rejectRequestBody
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		api.BadRequestResponse(w, r, fmt.Errorf("invalid request body: %w", err))
		return
	}

	if !api.validateBody(w, r, &request) {
		return
	}

	if err := api.hub.Reject(request.PatientName); err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	if err := api.writeJSON(w, http.StatusOK,
		envelope{"data": NewRejectRequestResponse(request.PatientName)}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
		return
	}
}

func (api *coordinationAPI) listTrafficLights(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	catalog := api.hub.Catalog()
	lights := make([]trafficLightPayload, 0, len(catalog))
	for _, sp := range catalog {
		lights = append(lights, trafficLightPayload{
			Lat: sp.GetLat(),
			Lng: sp.GetLng(),
		})
	}

	if err := api.writeJSON(w, http.StatusOK, envelope{"data": lights}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
		return
	}
}

func (api *coordinationAPI) validateBody(w http.ResponseWriter, r *http.Request, body interface{}) bool {
	validate := validator.New()
	if err := validate.Struct(body); err != nil {
		english := en.New()
		uni := ut.New(english, english)
		trans, _ := uni.GetTranslator("en")
		_ = enTranslations.RegisterDefaultTranslations(validate, trans)
		vv := translateError(err, trans)
		vvString := []string{}
		for _, v := range vv {
			vvString = append(vvString, v.Error())
		}
		api.BadRequestResponse(w, r, fmt.Errorf("validation error: %v", vvString))
		return false
	}
	return true
}
