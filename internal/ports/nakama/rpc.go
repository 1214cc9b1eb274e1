package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/heroiclabs/nakama-common/runtime"

	"durak/internal/app"
)

// gRPC status codes used for RPC errors.
const (
	codeInvalidArgument = 3
	codeInternal        = 13
	codeUnauthenticated = 16
)

var (
	errNoUser          = runtime.NewError("no user id in context", codeUnauthenticated)
	errInvalidPayload  = runtime.NewError("invalid payload", codeInvalidArgument)
	errInvalidSettings = runtime.NewError("invalid settings", codeInvalidArgument)
	errInternal        = runtime.NewError("internal error", codeInternal)
)

// ProfileResponse is returned by RpcProfile and RpcSaveSettings.
type ProfileResponse struct {
	Stats        app.Stats    `json:"stats"`
	Rank         string       `json:"rank"`
	Settings     app.Settings `json:"settings"`
	HasSavedGame bool         `json:"hasSavedGame"`
}

// StartRequest is the RpcStart payload.
type StartRequest struct {
	Resume bool `json:"resume"`
}

// StartResponse is returned by RpcStart.
type StartResponse struct {
	MatchID string `json:"match_id"`
}

// RegisterRPCs registers all client-callable RPCs.
func RegisterRPCs(initializer runtime.Initializer) error {
	if err := initializer.RegisterRpc(RpcProfile, RpcGetProfile); err != nil {
		return err
	}
	if err := initializer.RegisterRpc(RpcSaveSettings, RpcStoreSettings); err != nil {
		return err
	}
	return initializer.RegisterRpc(RpcStart, RpcStartMatch)
}

func userProfile(ctx context.Context, nk runtime.NakamaModule) (string, *app.Profile, error) {
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
	if userID == "" {
		return "", nil, errNoUser
	}
	return userID, app.NewProfile(NewNakamaStorageAdapter(nk, userID)), nil
}

func buildProfileResponse(ctx context.Context, profile *app.Profile) (ProfileResponse, error) {
	stats, err := profile.LoadStats(ctx)
	if err != nil {
		return ProfileResponse{}, err
	}
	settings, err := profile.LoadSettings(ctx)
	if err != nil {
		return ProfileResponse{}, err
	}
	saved, err := profile.HasSavedGame(ctx)
	if err != nil {
		return ProfileResponse{}, err
	}
	return ProfileResponse{
		Stats:        stats,
		Rank:         stats.Rank(),
		Settings:     settings,
		HasSavedGame: saved,
	}, nil
}

func encodeResponse(v any) (string, error) {
	out, err := json.Marshal(v)
	if err != nil {
		return "", errInternal
	}
	return string(out), nil
}

// RpcGetProfile returns the caller's stats, rank, settings and whether a
// saved game can be resumed.
//
// Payload: unused.
// Returns: ProfileResponse JSON.
func RpcGetProfile(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, profile, err := userProfile(ctx, nk)
	if err != nil {
		return "", err
	}
	resp, err := buildProfileResponse(ctx, profile)
	if err != nil {
		logger.Error("RpcGetProfile [User:%s]: %v", userID, err)
		return "", errInternal
	}
	return encodeResponse(resp)
}

// RpcStoreSettings validates and stores the caller's settings.
//
// Payload: Settings JSON. Missing fields keep their defaults.
// Returns: ProfileResponse JSON.
func RpcStoreSettings(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, profile, err := userProfile(ctx, nk)
	if err != nil {
		return "", err
	}
	settings := app.DefaultSettings()
	if err := json.Unmarshal([]byte(payload), &settings); err != nil {
		return "", errInvalidPayload
	}
	if err := profile.SaveSettings(ctx, settings); err != nil {
		if errors.Is(err, app.ErrInvalidSettings) {
			logger.Warn("RpcStoreSettings [User:%s]: %v", userID, err)
			return "", errInvalidSettings
		}
		logger.Error("RpcStoreSettings [User:%s]: %v", userID, err)
		return "", errInternal
	}
	resp, err := buildProfileResponse(ctx, profile)
	if err != nil {
		logger.Error("RpcStoreSettings [User:%s]: %v", userID, err)
		return "", errInternal
	}
	return encodeResponse(resp)
}

// RpcStartMatch creates a private authoritative match for the caller. With
// resume set the match continues the saved game when one exists.
//
// Payload: (Optional) StartRequest JSON.
// Returns: StartResponse JSON.
func RpcStartMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
	if userID == "" {
		return "", errNoUser
	}
	var req StartRequest
	if payload != "" {
		if err := json.Unmarshal([]byte(payload), &req); err != nil {
			return "", errInvalidPayload
		}
	}

	matchID, err := nk.MatchCreate(ctx, MatchNameDurak, map[string]interface{}{
		paramUserID: userID,
		paramResume: req.Resume,
	})
	if err != nil {
		logger.Error("RpcStartMatch [User:%s]: Failed to create match: %v", userID, err)
		return "", errInternal
	}

	logger.Info("RpcStartMatch [User:%s]: Created match %s (resume=%t)", userID, matchID, req.Resume)
	return encodeResponse(StartResponse{MatchID: matchID})
}
