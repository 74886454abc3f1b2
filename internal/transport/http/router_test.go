package httptransport

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"certitrack/internal/audit"
	"certitrack/internal/certificate"
	"certitrack/internal/document"
	"certitrack/internal/dossier"
	"certitrack/internal/feenote"
	"certitrack/internal/inspection"
	"certitrack/internal/notification"
	"certitrack/internal/stats"
)

type RouterSuite struct {
	suite.Suite
	server *httptest.Server
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) SetupTest() {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	trail := audit.NewService(audit.NewInMemoryStore(), nil, log)
	notifications := notification.NewService(notification.NewInMemoryStore(), nil, log)

	dossiers := dossier.NewService(dossier.NewInMemoryStore(), trail, nil, log,
		dossier.WithNotifier(notifications, "responsable technique"))
	documents := document.NewService(document.NewInMemoryStore(), dossiers)
	dossiers.BindCompleteness(documents)
	inspections := inspection.NewService(inspection.NewInMemoryStore(), dossiers, notifications, log)
	certificates := certificate.NewService(certificate.NewInMemoryStore(), dossiers, dossiers, notifications, log)
	feenotes := feenote.NewService(feenote.NewInMemoryStore(), dossiers, notifications, log)
	statistics := stats.NewService(dossiers, documents, inspections, certificates, feenotes)

	handler := NewHandler(log, dossiers, documents, inspections, certificates, feenotes, notifications, statistics)
	s.server = httptest.NewServer(NewRouter(handler, log, nil, 5*time.Second))
}

func (s *RouterSuite) TearDownTest() {
	s.server.Close()
}

func (s *RouterSuite) do(method, path string, body any) *http.Response {
	s.T().Helper()
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, s.server.URL+path, &buf)
	s.Require().NoError(err)
	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	return resp
}

func (s *RouterSuite) decodeBody(resp *http.Response, v any) {
	s.T().Helper()
	defer resp.Body.Close()
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(v))
}

func (s *RouterSuite) createDossier() map[string]any {
	s.T().Helper()
	resp := s.do(http.MethodPost, "/dossiers", map[string]any{
		"operateurNom":     "Ets Mbarga",
		"typeProduit":      "cacao",
		"dateTransmission": "2024-01-01",
		"delai":            30,
		"responsable":      "Mme Ndongo",
	})
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	var d map[string]any
	s.decodeBody(resp, &d)
	return d
}

func (s *RouterSuite) TestDossierLifecycle() {
	d := s.createDossier()
	id := d["id"].(string)

	s.Equal("en_attente", d["status"])
	s.Equal("2024-01-31T00:00:00Z", d["dateButoir"])

	resp := s.do(http.MethodGet, "/dossiers/"+id, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var got map[string]any
	s.decodeBody(resp, &got)
	history := got["historique"].([]any)
	s.Require().Len(history, 1)
	s.Equal("Création du dossier", history[0].(map[string]any)["action"])

	resp = s.do(http.MethodPatch, "/dossiers/"+id, map[string]any{
		"status":      "en_cours",
		"responsable": "M. Essomba",
	})
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.decodeBody(resp, &got)
	s.Equal("en_cours", got["status"])

	resp = s.do(http.MethodGet, "/dossiers/"+id+"/historique", nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var events []map[string]any
	s.decodeBody(resp, &events)
	s.Require().Len(events, 2)
	s.Equal("Statut modifié: en_attente → en_cours", events[1]["action"])

	resp = s.do(http.MethodDelete, "/dossiers/"+id, nil)
	resp.Body.Close()
	s.Equal(http.StatusNoContent, resp.StatusCode)

	resp = s.do(http.MethodGet, "/dossiers/"+id, nil)
	s.Equal(http.StatusNotFound, resp.StatusCode)
	var envelope map[string]string
	s.decodeBody(resp, &envelope)
	s.Equal("not_found", envelope["error"])
}

func (s *RouterSuite) TestAsyncCreate() {
	resp := s.do(http.MethodPost, "/dossiers?async=1", map[string]any{
		"operateurNom": "Coopérative Ngo",
		"typeProduit":  "café",
	})
	s.Require().Equal(http.StatusAccepted, resp.StatusCode)
	var d map[string]any
	s.decodeBody(resp, &d)
	s.NotEmpty(d["id"])
}

func (s *RouterSuite) TestValidationErrors() {
	s.Run("missing operator name", func() {
		resp := s.do(http.MethodPost, "/dossiers", map[string]any{"typeProduit": "cacao"})
		s.Equal(http.StatusBadRequest, resp.StatusCode)
		var envelope map[string]string
		s.decodeBody(resp, &envelope)
		s.Equal("validation", envelope["error"])
		s.NotEmpty(envelope["message"])
	})

	s.Run("malformed body", func() {
		req, err := http.NewRequest(http.MethodPost, s.server.URL+"/dossiers",
			bytes.NewBufferString("{"))
		s.Require().NoError(err)
		resp, err := http.DefaultClient.Do(req)
		s.Require().NoError(err)
		defer resp.Body.Close()
		s.Equal(http.StatusBadRequest, resp.StatusCode)
	})

	s.Run("illegal transition is a conflict", func() {
		d := s.createDossier()
		id := d["id"].(string)
		resp := s.do(http.MethodPatch, "/dossiers/"+id, map[string]any{"status": "certifie"})
		defer resp.Body.Close()
		s.Equal(http.StatusConflict, resp.StatusCode)
	})
}

func (s *RouterSuite) TestDocumentsAndCompleteness() {
	d := s.createDossier()
	id := d["id"].(string)

	resp := s.do(http.MethodGet, "/dossiers/"+id+"/completude", nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var report map[string]any
	s.decodeBody(resp, &report)
	s.Equal(false, report["isComplete"])
	s.Len(report["missingTypes"].([]any), 5)

	for _, t := range []string{
		"registre_commerce", "carte_contribuable", "processus_production",
		"liste_personnel", "plan_localisation",
	} {
		resp := s.do(http.MethodPost, "/documents", map[string]any{
			"dossierId":   id,
			"type":        t,
			"nom":         t + ".pdf",
			"responsable": "Mme Ndongo",
		})
		resp.Body.Close()
		s.Require().Equal(http.StatusCreated, resp.StatusCode)
	}

	resp = s.do(http.MethodGet, "/dossiers/"+id+"/completude", nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.decodeBody(resp, &report)
	s.Equal(true, report["isComplete"])

	resp = s.do(http.MethodGet, "/dossiers/"+id+"/documents", nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var docs []map[string]any
	s.decodeBody(resp, &docs)
	s.Len(docs, 5)
}

func (s *RouterSuite) TestCertificateIssuance() {
	d := s.createDossier()
	id := d["id"].(string)

	resp := s.do(http.MethodPost, "/certificats", map[string]any{
		"dossierId":      id,
		"numero":         "CERT-2024-001",
		"dateExpiration": "2027-01-01",
		"responsable":    "M. Essomba",
	})
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	var c map[string]any
	s.decodeBody(resp, &c)
	s.Equal("actif", c["status"])

	resp = s.do(http.MethodGet, "/dossiers/"+id, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var got map[string]any
	s.decodeBody(resp, &got)
	s.Equal("certifie", got["status"])

	resp = s.do(http.MethodPost, "/certificats", map[string]any{
		"dossierId": id,
		"numero":    "CERT-2024-002",
	})
	resp.Body.Close()
	s.Equal(http.StatusConflict, resp.StatusCode)
}

func (s *RouterSuite) TestFeeNotes() {
	d := s.createDossier()
	id := d["id"].(string)

	resp := s.do(http.MethodPost, "/notes-frais", map[string]any{
		"dossierId":    id,
		"gestion":      100,
		"inspection":   250,
		"analyses":     75.5,
		"surveillance": 24.5,
	})
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	var n map[string]any
	s.decodeBody(resp, &n)
	s.Equal(450.0, n["montant"])
	s.Equal(false, n["acquitte"])

	noteID := n["id"].(string)
	resp = s.do(http.MethodPost, "/notes-frais/"+noteID+"/acquitter", nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.decodeBody(resp, &n)
	s.Equal(true, n["acquitte"])
	s.Equal("en_attente", n["status"])
}

func (s *RouterSuite) TestNotificationsFeed() {
	s.createDossier()

	resp := s.do(http.MethodGet, "/notifications/non-lues", nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var count map[string]int
	s.decodeBody(resp, &count)
	s.Equal(1, count["nonLues"])

	resp = s.do(http.MethodGet, "/notifications", nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var feed []map[string]any
	s.decodeBody(resp, &feed)
	s.Require().Len(feed, 1)

	nID := feed[0]["id"].(string)
	resp = s.do(http.MethodPost, "/notifications/"+nID+"/lue", nil)
	resp.Body.Close()
	s.Equal(http.StatusNoContent, resp.StatusCode)

	resp = s.do(http.MethodGet, "/notifications/non-lues", nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.decodeBody(resp, &count)
	s.Zero(count["nonLues"])
}

func (s *RouterSuite) TestStatisticsAndHealth() {
	s.createDossier()
	s.createDossier()

	resp := s.do(http.MethodGet, "/statistiques", nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var stats struct {
		Total    int            `json:"total"`
		ByStatus map[string]int `json:"parStatut"`
	}
	s.decodeBody(resp, &stats)
	s.Equal(2, stats.Total)
	s.Equal(2, stats.ByStatus["en_attente"])
	s.Contains(stats.ByStatus, "certifie")

	resp = s.do(http.MethodGet, "/healthz", nil)
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)
}

func (s *RouterSuite) TestExport() {
	d := s.createDossier()
	id := d["id"].(string)

	resp := s.do(http.MethodGet, "/dossiers/"+id+"/export", nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var export map[string]any
	s.decodeBody(resp, &export)
	s.Contains(export, "dossier")
	s.Contains(export, "documents")
	s.Contains(export, "certificats")
	s.Contains(export, "notesFrais")
}
