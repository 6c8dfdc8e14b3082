package api

import "context"

// OrthancGateway performs the raw archive calls of the orthanc probe.
// Each call returns the HTTP status code; err is set only when no response was received.
type OrthancGateway interface {
	SystemStatus(ctx context.Context) (int, error)
	StudyByDicomWeb(ctx context.Context, studyUID string, token string) (int, error)
	LookupStudy(ctx context.Context, studyUID string, token string) (int, error)
}
