package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"tankfill-service/internal/cargo/dataset"
	"tankfill-service/internal/cargo/model"
	"tankfill-service/internal/cargo/service"
	"tankfill-service/internal/config"
	"tankfill-service/internal/middleware"
	"tankfill-service/internal/notify"
)

type calcResponse struct {
	FillingPercentage float64 `json:"fillingPercentage"`
	PermittedVolume   float64 `json:"permittedVolume"`
	PermittedMass     float64 `json:"permittedMass"`
	TPCode            string  `json:"tpCode"`
	MatchMethod       string  `json:"matchMethod,omitempty"`
	MatchScore        *int    `json:"matchScore,omitempty"`
}

type errResponse struct {
	ErrorKind string `json:"errorKind"`
	Message   string `json:"message"`
}

// followUpMessage is what the caller sees when the identifier falls outside
// the reference domain. A soft end state on the lead-capture flow, not a bug.
const followUpMessage = "The UN number or cargo name shared is likely not associated with a liquid cargo. " +
	"However, the team will check and get back to you soon."

// Calculate handles POST /calculate: match the cargo against the current
// snapshot, run the filling formula, return the permitted values.
func Calculate(cfg config.Config, logger zerolog.Logger, store *dataset.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log := logger.With().Str("rid", middleware.GetRequestID(r)).Logger()

		body, derr := decodeBody(r)
		if derr == nil {
			var out *calcResponse
			out, derr = run(cfg, store.Snapshot(), body)
			if derr == nil {
				writeJSON(w, http.StatusOK, out)
				log.Info().
					Str("tp", out.TPCode).
					Str("method", out.MatchMethod).
					Dur("elapsed", time.Since(start)).
					Msg("calculate done")
				return
			}
		}

		writeJSON(w, statusFor(derr.Kind), errResponse{ErrorKind: string(derr.Kind), Message: derr.Message})
		log.Info().
			Str("kind", string(derr.Kind)).
			Dur("elapsed", time.Since(start)).
			Msg("calculate rejected")
	}
}

// SendEmail handles POST /send-email: the /calculate semantics plus Brevo
// contact upsert and result email. A lookup miss is a soft success here:
// the contact is captured and the follow-up email goes out anyway.
func SendEmail(cfg config.Config, logger zerolog.Logger, store *dataset.Store, mailer *notify.Brevo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log := logger.With().Str("rid", middleware.GetRequestID(r)).Logger()

		body, derr := decodeBody(r)
		if derr != nil {
			writeJSON(w, statusFor(derr.Kind), errResponse{ErrorKind: string(derr.Kind), Message: derr.Message})
			return
		}

		firstName := stringField(body, "firstName")
		email := stringField(body, "email")
		if firstName == "" || email == "" {
			derr = model.Errf(model.KindInvalidInput, "firstName and email are required")
			writeJSON(w, statusFor(derr.Kind), errResponse{ErrorKind: string(derr.Kind), Message: derr.Message})
			return
		}

		out, derr := run(cfg, store.Snapshot(), body)
		var message string
		if derr != nil {
			switch derr.Kind {
			case model.KindNotFound, model.KindMismatch:
				out, message = nil, followUpMessage
			default:
				writeJSON(w, statusFor(derr.Kind), errResponse{ErrorKind: string(derr.Kind), Message: derr.Message})
				log.Info().Str("kind", string(derr.Kind)).Msg("send-email rejected")
				return
			}
		}

		if mailer.Enabled() {
			ctx := r.Context()
			if err := mailer.UpsertContact(ctx, email, firstName); err != nil {
				log.Error().Err(err).Msg("brevo contact upsert failed")
				writeJSON(w, http.StatusBadGateway, errResponse{ErrorKind: "UpstreamError", Message: "contact delivery failed"})
				return
			}
			if err := mailer.SendResultEmail(ctx, email, emailParams(body, out, message)); err != nil {
				log.Error().Err(err).Msg("brevo email dispatch failed")
				writeJSON(w, http.StatusBadGateway, errResponse{ErrorKind: "UpstreamError", Message: "email delivery failed"})
				return
			}
		} else {
			log.Warn().Msg("brevo not configured, skipping dispatch")
		}

		resp := map[string]any{}
		if out != nil {
			resp["fillingPercentage"] = out.FillingPercentage
			resp["permittedVolume"] = out.PermittedVolume
			resp["permittedMass"] = out.PermittedMass
			resp["tpCode"] = out.TPCode
		}
		if message != "" {
			resp["message"] = message
		}
		writeJSON(w, http.StatusOK, resp)
		log.Info().Bool("resolved", out != nil).Dur("elapsed", time.Since(start)).Msg("send-email done")
	}
}

// run is the core pipeline: parse → match → calculate. Pure over the
// snapshot passed in.
func run(cfg config.Config, ds *model.Dataset, body map[string]any) (*calcResponse, *model.DomainError) {
	in, q, derr := parseRequest(body)
	if derr != nil {
		return nil, derr
	}

	opt := model.MatchOptions{
		Strategy:       model.Strategy(cfg.MatchStrategy),
		FuzzyThreshold: cfg.FuzzyThreshold,
	}
	m, err := service.Match(ds, q, opt)
	if err != nil {
		return nil, asDomain(err)
	}

	in.TPCode = m.TPCode
	res, err := service.Calculate(in)
	if err != nil {
		return nil, asDomain(err)
	}

	return &calcResponse{
		FillingPercentage: res.FillingPercentage,
		PermittedVolume:   res.PermittedVolume,
		PermittedMass:     res.PermittedMass,
		TPCode:            m.TPCode,
		MatchMethod:       m.Method,
		MatchScore:        m.Score,
	}, nil
}

// emailParams builds the template placeholders the way the original form
// flow expects them; absent values fall back to "N/A".
func emailParams(body map[string]any, out *calcResponse, message string) map[string]any {
	cargo := stringField(body, "cargoInfo")
	if cargo == "" {
		cargo = stringField(body, "cargoName")
	}
	params := map[string]any{
		"cargoName":          orNA(cargo),
		"maxFillingRatio":    orNA(""),
		"maxPermittedVolume": orNA(""),
		"maxPermittedMass":   orNA(""),
		"message":            orNA(message),
	}
	if out != nil {
		params["maxFillingRatio"] = out.FillingPercentage
		params["maxPermittedVolume"] = out.PermittedVolume
		params["maxPermittedMass"] = out.PermittedMass
	}
	return params
}

func orNA(s string) any {
	if s == "" {
		return "N/A"
	}
	return s
}

func asDomain(err error) *model.DomainError {
	var de *model.DomainError
	if errors.As(err, &de) {
		return de
	}
	// unreachable while the core only returns DomainError; mapped to 500
	return &model.DomainError{Kind: "Internal", Message: err.Error()}
}
