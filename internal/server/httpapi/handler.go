package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/kaman1990/field-service-sub001/internal/api"
	"github.com/kaman1990/field-service-sub001/internal/common"
	"github.com/kaman1990/field-service-sub001/internal/server/models"
	"github.com/kaman1990/field-service-sub001/internal/server/services"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, api.ErrorResponse{Error: err.Error()})
}

func statusFromError(err error) int {
	switch {
	case errors.Is(err, common.ErrorAlreadyExists) || errors.Is(err, common.ErrVersionConflict):
		return http.StatusConflict
	case errors.Is(err, common.ErrorUnauthorized) || errors.Is(err, common.ErrRefreshTokenExpired):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (s *HTTPServer) handlePing(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, api.PingResponse{Status: "OK"})
}

func (s *HTTPServer) handleRegister(w http.ResponseWriter, r *http.Request) {

	s.logger.Info(r.Context(), "Registration request")

	var req api.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}
	if req.Login == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, errors.New("login and password are required"))
		return
	}

	pair, err := s.users.Register(r.Context(), req.Login, req.Password)
	if err != nil {
		s.logger.Error(r.Context(), err.Error())
		writeError(w, statusFromError(err), err)
		return
	}

	s.logger.Info(r.Context(), "Registered", "username", req.Login)
	writeJSON(w, http.StatusCreated, api.TokenPair{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken})
}

func (s *HTTPServer) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req api.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}

	pair, err := s.users.Login(r.Context(), req.Login, req.Password)
	if err != nil {
		writeError(w, statusFromError(err), err)
		return
	}

	writeJSON(w, http.StatusOK, api.TokenPair{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken})
}

func (s *HTTPServer) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req api.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}
	if req.RefreshToken == "" {
		writeError(w, http.StatusBadRequest, errors.New("refresh token is required"))
		return
	}

	pair, err := s.users.RefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		writeError(w, statusFromError(err), err)
		return
	}

	writeJSON(w, http.StatusOK, api.TokenPair{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken})
}

func (s *HTTPServer) handleCatalogPull(w http.ResponseWriter, r *http.Request) {
	var req api.CatalogPullRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}

	snap, err := s.catalog.Pull(r.Context(), req.Since)
	if err != nil {
		s.logger.Error(r.Context(), err.Error())
		writeError(w, statusFromError(err), err)
		return
	}

	writeJSON(w, http.StatusOK, toCatalogPullResponse(snap))
}

func (s *HTTPServer) handleRegisterImage(w http.ResponseWriter, r *http.Request) {
	var req api.RegisterImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}
	if req.ID == "" || req.ParentID == "" || req.RemoteKey == "" {
		writeError(w, http.StatusBadRequest, errors.New("id, parent_id and remote_key are required"))
		return
	}
	if !common.ValidParentKind(req.ParentKind) {
		writeError(w, http.StatusBadRequest, errors.New("unknown parent kind"))
		return
	}

	image := &models.Image{
		ID:         req.ID,
		ParentKind: req.ParentKind,
		ParentID:   req.ParentID,
		SiteID:     req.SiteID,
		Filename:   req.Filename,
		MediaType:  req.MediaType,
		Size:       req.Size,
		RemoteKey:  req.RemoteKey,
		CreatedAt:  req.CreatedAt,
	}
	if err := s.files.RegisterImage(r.Context(), image); err != nil {
		s.logger.Error(r.Context(), err.Error())
		writeError(w, statusFromError(err), err)
		return
	}

	s.logger.Info(r.Context(), "Image registered",
		"image_id", req.ID, "user_id", userIDFromContext(r.Context()))
	w.WriteHeader(http.StatusOK)
}

func (s *HTTPServer) handlePresignPut(w http.ResponseWriter, r *http.Request) {
	var req api.PresignPutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}

	key, url, err := s.files.GetPresignedPutUrl(r.Context(), req.Filename, req.MediaType)
	if err != nil {
		s.logger.Error(r.Context(), err.Error())
		writeError(w, statusFromError(err), err)
		return
	}

	writeJSON(w, http.StatusOK, api.PresignPutResponse{Key: key, URL: url})
}

func (s *HTTPServer) handlePresignGet(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		writeError(w, http.StatusBadRequest, errors.New("key is required"))
		return
	}

	url, err := s.files.GetPresignedGetUrl(r.Context(), key)
	if err != nil {
		s.logger.Error(r.Context(), err.Error())
		writeError(w, statusFromError(err), err)
		return
	}

	writeJSON(w, http.StatusOK, api.PresignGetResponse{URL: url})
}

func toCatalogPullResponse(snap *services.CatalogSnapshot) *api.CatalogPullResponse {
	resp := &api.CatalogPullResponse{
		Areas:    make([]api.CatalogArea, 0, len(snap.Areas)),
		Statuses: make([]api.CatalogStatus, 0, len(snap.Statuses)),
		Assets:   make([]api.CatalogAsset, 0, len(snap.Assets)),
		Gateways: make([]api.CatalogGateway, 0, len(snap.Gateways)),
		Points:   make([]api.CatalogPoint, 0, len(snap.Points)),
		Images:   make([]api.CatalogImage, 0, len(snap.Images)),
		Version:  snap.Version,
	}

	for _, a := range snap.Areas {
		resp.Areas = append(resp.Areas, api.CatalogArea{
			ID: a.ID, Name: a.Name, Version: a.Version, Deleted: a.Deleted,
		})
	}
	for _, st := range snap.Statuses {
		resp.Statuses = append(resp.Statuses, api.CatalogStatus{
			ID: st.ID, Name: st.Name, Version: st.Version, Deleted: st.Deleted,
		})
	}
	for _, eq := range snap.Assets {
		resp.Assets = append(resp.Assets, api.CatalogAsset{
			ID: eq.ID, AreaID: eq.AreaID, StatusID: eq.StatusID,
			Name: eq.Name, Serial: eq.Serial, Version: eq.Version, Deleted: eq.Deleted,
		})
	}
	for _, g := range snap.Gateways {
		resp.Gateways = append(resp.Gateways, api.CatalogGateway{
			ID: g.ID, AreaID: g.AreaID, Name: g.Name, Serial: g.Serial,
			Version: g.Version, Deleted: g.Deleted,
		})
	}
	for _, p := range snap.Points {
		resp.Points = append(resp.Points, api.CatalogPoint{
			ID: p.ID, AssetID: p.AssetID, GatewayID: p.GatewayID,
			Name: p.Name, Unit: p.Unit, Version: p.Version, Deleted: p.Deleted,
		})
	}
	for _, img := range snap.Images {
		resp.Images = append(resp.Images, api.CatalogImage{
			ID: img.ID, ParentKind: img.ParentKind, ParentID: img.ParentID,
			SiteID: img.SiteID, Filename: img.Filename, MediaType: img.MediaType,
			Size: img.Size, RemoteKey: img.RemoteKey, Version: img.Version,
			CreatedAt: img.CreatedAt, Deleted: img.Deleted,
		})
	}

	return resp
}
