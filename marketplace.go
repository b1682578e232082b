package marketplace

import (
	"github.com/goliatone/go-marketplace/internal/campaigns"
	"github.com/goliatone/go-marketplace/internal/di"
	"github.com/goliatone/go-marketplace/internal/listings"
	"github.com/goliatone/go-marketplace/internal/media"
	"github.com/goliatone/go-marketplace/internal/notes"
	"github.com/goliatone/go-marketplace/internal/projects"
	"github.com/goliatone/go-marketplace/internal/reviewqueue"
	"github.com/goliatone/go-marketplace/pkg/interfaces"
)

// ListingService exports the listing service contract for consumers of the
// marketplace package.
type ListingService = listings.Service

// ProjectService exports the project service contract.
type ProjectService = projects.Service

// CampaignService exports the ad campaign service contract.
type CampaignService = campaigns.Service

// MediaService exports the media asset service contract.
type MediaService = media.Service

// NoteService exports the submission note service contract.
type NoteService = notes.Service

// ReviewQueueService exports the staff review dashboard contract.
type ReviewQueueService = reviewqueue.Service

// Actor identifies who is acting; hosts resolve the role at the request
// boundary and pass it through explicitly.
type Actor = interfaces.Actor

// SubmissionStatus mirrors the lifecycle states understood by the workflow engine.
type SubmissionStatus = interfaces.SubmissionStatus

// TransitionInput captures a single workflow transition attempt.
type TransitionInput = interfaces.TransitionInput

// SubmissionRecord is the engine's generic view of a publishable entity.
type SubmissionRecord = interfaces.SubmissionRecord

// Module is the top level marketplace runtime façade.
type Module struct {
	container *di.Container
}

// New constructs a marketplace module using the provided configuration and
// optional DI overrides.
func New(cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Listings returns the configured listing service.
func (m *Module) Listings() ListingService {
	return m.container.ListingService()
}

// Projects returns the configured project service.
func (m *Module) Projects() ProjectService {
	return m.container.ProjectService()
}

// Campaigns returns the configured ad campaign service.
func (m *Module) Campaigns() CampaignService {
	return m.container.CampaignService()
}

// Media returns the configured media asset service.
func (m *Module) Media() MediaService {
	return m.container.MediaService()
}

// Notes returns the configured note service. Nil when the notes feature is
// disabled.
func (m *Module) Notes() NoteService {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.NoteService()
}

// ReviewQueue returns the staff review dashboard reads. Nil when the feature
// is disabled.
func (m *Module) ReviewQueue() ReviewQueueService {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.ReviewQueueService()
}

// WorkflowEngine returns the configured submission workflow engine.
func (m *Module) WorkflowEngine() interfaces.WorkflowEngine {
	return m.container.WorkflowEngine()
}

// ActivitySink returns the configured audit sink.
func (m *Module) ActivitySink() interfaces.ActivitySink {
	return m.container.ActivitySink()
}

// RoleResolver returns the configured role resolver. Without host options
// this is an empty static resolver; roles are assigned by the host.
func (m *Module) RoleResolver() interfaces.RoleResolver {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.RoleResolver()
}
