package health

import (
	"context"
	"net/http"

	"orthanc-health/internal/domain/gateway/api"
	"orthanc-health/internal/domain/model"
	"orthanc-health/pkg/log"
	"orthanc-health/pkg/msg"
)

// TokenUnavailable is reported when no token could be obtained, whatever the reason.
const TokenUnavailable = "Failed to get valid token from orthanc-auth-service"

// OrthancProbe checks the archive end to end: token, system status, then study access with the token.
type OrthancProbe struct {
	auth     api.AuthServiceGateway
	orthanc  api.OrthancGateway
	studyUID string
}

var _ Checker = (*OrthancProbe)(nil)

func NewOrthancProbe(auth api.AuthServiceGateway, orthanc api.OrthancGateway, studyUID string) *OrthancProbe {
	return &OrthancProbe{auth: auth, orthanc: orthanc, studyUID: studyUID}
}

// Check runs the probe. A status-only success on /system is not enough: the study must be
// readable with a freshly issued token, through dicom-web or, failing that, /tools/lookup.
func (p *OrthancProbe) Check(ctx context.Context) (outcome model.CheckOutcome) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorw(msg.GetMessage("orthanc.error", r), "panic", r)
			outcome = model.OutcomeError("%v", r)
		}
	}()

	token, err := p.auth.AcquireToken(ctx, p.studyUID)
	if err != nil || token == "" {
		return model.OutcomeError(TokenUnavailable)
	}

	log.Info(msg.GetMessage("orthanc.system", "/system"))
	status, err := p.orthanc.SystemStatus(ctx)
	if err != nil {
		return p.transportFailure(err)
	}
	log.Info(msg.GetMessage("orthanc.system-status", status))
	if status != http.StatusOK {
		return model.OutcomeError("Orthanc returned %d for /system", status)
	}

	log.Info(msg.GetMessage("orthanc.study", p.studyUID))
	status, err = p.orthanc.StudyByDicomWeb(ctx, p.studyUID, string(token))
	if err != nil {
		return p.transportFailure(err)
	}
	log.Info(msg.GetMessage("orthanc.study-status", status))
	if status == http.StatusOK {
		return model.OutcomeOK()
	}

	status, err = p.orthanc.LookupStudy(ctx, p.studyUID, string(token))
	if err != nil {
		return p.transportFailure(err)
	}
	log.Info(msg.GetMessage("orthanc.lookup-status", status))
	if status == http.StatusOK {
		return model.OutcomeOK()
	}

	return model.OutcomeError("Failed to access study with token (Status: %d)", status)
}

func (p *OrthancProbe) transportFailure(err error) model.CheckOutcome {
	log.Errorw(msg.GetMessage("orthanc.error", err), "error", err)
	return model.OutcomeFromError(err)
}
