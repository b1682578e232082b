package di

import (
	"fmt"
	"strings"
	"time"

	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-marketplace/internal/activity"
	"github.com/goliatone/go-marketplace/internal/campaigns"
	"github.com/goliatone/go-marketplace/internal/identity"
	"github.com/goliatone/go-marketplace/internal/listings"
	"github.com/goliatone/go-marketplace/internal/logging"
	"github.com/goliatone/go-marketplace/internal/logging/console"
	"github.com/goliatone/go-marketplace/internal/logging/gologger"
	"github.com/goliatone/go-marketplace/internal/media"
	"github.com/goliatone/go-marketplace/internal/notes"
	"github.com/goliatone/go-marketplace/internal/projects"
	"github.com/goliatone/go-marketplace/internal/reviewqueue"
	"github.com/goliatone/go-marketplace/internal/runtimeconfig"
	"github.com/goliatone/go-marketplace/internal/workflow"
	"github.com/goliatone/go-marketplace/pkg/interfaces"
)

// Container wires module dependencies. Without a bun database every
// repository falls back to its in-memory implementation so the module stays
// usable in tests and demos.
type Container struct {
	Config runtimeconfig.Config

	bunDB         *bun.DB
	cacheTTL      time.Duration
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer

	loggerProvider interfaces.LoggerProvider
	roleResolver   interfaces.RoleResolver
	sink           interfaces.ActivitySink

	listingRepo  listings.ListingRepository
	projectRepo  projects.ProjectRepository
	campaignRepo campaigns.CampaignRepository
	assetRepo    media.AssetRepository
	noteRepo     notes.NoteRepository

	listingSvc  listings.Service
	projectSvc  projects.Service
	campaignSvc campaigns.Service
	mediaSvc    media.Service
	noteSvc     notes.Service
	reviewSvc   reviewqueue.Service

	engine *workflow.Engine
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithBunDB installs the database handle used by every bun repository.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithCache overrides the repository read cache.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithLoggerProvider overrides the logger provider built from config.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithActivitySink overrides the audit sink binding.
func WithActivitySink(sink interfaces.ActivitySink) Option {
	return func(c *Container) {
		c.sink = sink
	}
}

// WithRoleResolver installs the role resolver exposed to host applications.
func WithRoleResolver(resolver interfaces.RoleResolver) Option {
	return func(c *Container) {
		c.roleResolver = resolver
	}
}

// WithProfileStore resolves actor roles from the host's profile storage.
// Users without a stored role fall back to fallbackRole; pass an empty string
// to reject them instead.
func WithProfileStore(store identity.ProfileStore, fallbackRole string) Option {
	return func(c *Container) {
		if store != nil {
			c.roleResolver = identity.NewProfileResolver(store, fallbackRole)
		}
	}
}

// WithListingService overrides the default listing service binding.
func WithListingService(svc listings.Service) Option {
	return func(c *Container) {
		c.listingSvc = svc
	}
}

// WithProjectService overrides the default project service binding.
func WithProjectService(svc projects.Service) Option {
	return func(c *Container) {
		c.projectSvc = svc
	}
}

// WithCampaignService overrides the default campaign service binding.
func WithCampaignService(svc campaigns.Service) Option {
	return func(c *Container) {
		c.campaignSvc = svc
	}
}

// WithMediaService overrides the default media service binding.
func WithMediaService(svc media.Service) Option {
	return func(c *Container) {
		c.mediaSvc = svc
	}
}

// WithNoteService overrides the default note service binding.
func WithNoteService(svc notes.Service) Option {
	return func(c *Container) {
		c.noteSvc = svc
	}
}

// NewContainer creates a container with the provided configuration.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cacheTTL := cfg.Cache.DefaultTTL
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}

	c := &Container{
		Config:       cfg,
		cacheTTL:     cacheTTL,
		sink:         activity.NewMemorySink(),
		listingRepo:  listings.NewMemoryListingRepository(),
		projectRepo:  projects.NewMemoryProjectRepository(),
		campaignRepo: campaigns.NewMemoryCampaignRepository(),
		assetRepo:    media.NewMemoryAssetRepository(),
		noteRepo:     notes.NewMemoryNoteRepository(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.roleResolver == nil {
		c.roleResolver = identity.NewStaticResolver()
	}

	if err := c.configureLogging(); err != nil {
		return nil, err
	}
	c.configureCacheDefaults()
	c.configureRepositories()
	c.configureServices()

	if err := c.configureWorkflow(); err != nil {
		return nil, err
	}

	if cfg.Features.ReviewQueue {
		c.reviewSvc = reviewqueue.NewService(
			reviewqueue.WithSource("listing", c.listingRepo),
			reviewqueue.WithSource("project", c.projectRepo),
			reviewqueue.WithSource("ad_campaign", c.campaignRepo),
			reviewqueue.WithSource("media", c.assetRepo),
			reviewqueue.WithNotes(c.noteSvc),
			reviewqueue.WithLogger(logging.ReviewQueueLogger(c.loggerProvider)),
		)
	}

	return c, nil
}

func (c *Container) configureLogging() error {
	if c.loggerProvider != nil || !c.Config.Features.Logger {
		return nil
	}

	switch strings.ToLower(strings.TrimSpace(c.Config.Logging.Provider)) {
	case "console":
		c.loggerProvider = console.NewProvider(console.Options{})
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     c.Config.Logging.Level,
			Format:    c.Config.Logging.Format,
			AddSource: c.Config.Logging.AddSource,
			Focus:     c.Config.Logging.Focus,
		})
		if err != nil {
			return err
		}
		c.loggerProvider = provider
	case "noop":
	default:
		return runtimeconfig.ErrLoggingProviderUnknown
	}
	return nil
}

func (c *Container) configureCacheDefaults() {
	if !c.Config.Cache.Enabled {
		return
	}

	if c.cacheService == nil {
		cfg := repocache.DefaultConfig()
		if c.cacheTTL > 0 {
			cfg.TTL = c.cacheTTL
		}
		service, err := repocache.NewCacheService(cfg)
		if err == nil {
			c.cacheService = service
		}
	}

	if c.cacheService != nil && c.keySerializer == nil {
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}
}

func (c *Container) configureRepositories() {
	if c.bunDB == nil {
		return
	}

	c.listingRepo = listings.NewBunListingRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
	c.projectRepo = projects.NewBunProjectRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
	c.campaignRepo = campaigns.NewBunCampaignRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
	c.assetRepo = media.NewBunAssetRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
	c.noteRepo = notes.NewBunNoteRepository(c.bunDB)
	c.sink = activity.NewBunSink(c.bunDB)
}

func (c *Container) configureServices() {
	if c.noteSvc == nil && c.Config.Features.Notes {
		c.noteSvc = notes.NewService(c.noteRepo)
	}

	if c.listingSvc == nil {
		c.listingSvc = listings.NewService(c.listingRepo,
			listings.WithActivitySink(c.sink),
			listings.WithCodeGenerator(identity.ListingCode),
		)
	}
	if c.projectSvc == nil {
		c.projectSvc = projects.NewService(c.projectRepo)
	}
	if c.campaignSvc == nil {
		campaignOpts := []campaigns.ServiceOption{
			campaigns.WithCodeGenerator(identity.CampaignCode),
		}
		if initial := initialStateFor(c.Config.Workflow.Definitions, "ad_campaign"); initial != "" {
			campaignOpts = append(campaignOpts, campaigns.WithInitialStatus(initial))
		}
		c.campaignSvc = campaigns.NewService(c.campaignRepo, campaignOpts...)
	}
	if c.mediaSvc == nil {
		c.mediaSvc = media.NewService(c.assetRepo)
	}
}

// initialStateFor reads the creation status for an entity kind out of the
// configured workflow definitions so services and the engine stay in step.
func initialStateFor(definitions []runtimeconfig.WorkflowDefinitionConfig, entity string) string {
	for _, definition := range definitions {
		if !strings.EqualFold(strings.TrimSpace(definition.Entity), entity) {
			continue
		}
		for _, state := range definition.States {
			if state.Initial {
				return state.Name
			}
		}
	}
	return ""
}

func (c *Container) configureWorkflow() error {
	definitions, err := workflow.CompileDefinitionConfigs(c.Config.Workflow.Definitions)
	if err != nil {
		return err
	}

	engineOpts := []workflow.Option{
		workflow.WithActivitySink(c.sink),
	}
	if c.noteSvc != nil {
		engineOpts = append(engineOpts, workflow.WithNoteAppender(c.noteSvc))
	}
	if c.Config.Features.PayloadValidation {
		validator := workflow.NewPayloadValidator()
		for _, definition := range c.Config.Workflow.Definitions {
			if err := validator.Register(definition.Entity, workflow.DefaultPayloadSchema); err != nil {
				return err
			}
		}
		engineOpts = append(engineOpts, workflow.WithPayloadValidator(validator))
	}

	engine, err := workflow.New(definitions, engineOpts...)
	if err != nil {
		return err
	}

	adapters := map[string]interfaces.SubmissionAdapter{
		"listing":     listings.NewAdapter(c.listingRepo),
		"project":     projects.NewAdapter(c.projectRepo),
		"ad_campaign": campaigns.NewAdapter(c.campaignRepo),
		"media":       media.NewAdapter(c.assetRepo),
	}
	for kind, adapter := range adapters {
		if err := engine.RegisterAdapter(kind, adapter); err != nil {
			return fmt.Errorf("di: register %s adapter: %w", kind, err)
		}
	}

	c.engine = engine
	return nil
}

// WorkflowEngine returns the configured submission workflow engine.
func (c *Container) WorkflowEngine() *workflow.Engine {
	return c.engine
}

// LoggerProvider exposes the configured logger provider. May be nil when the
// logging feature is disabled.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// ActivitySink exposes the configured audit sink.
func (c *Container) ActivitySink() interfaces.ActivitySink {
	return c.sink
}

// RoleResolver exposes the configured role resolver. Defaults to an empty
// static resolver; hosts install their own via WithRoleResolver or
// WithProfileStore.
func (c *Container) RoleResolver() interfaces.RoleResolver {
	return c.roleResolver
}

// ListingRepository exposes the configured listing repository.
func (c *Container) ListingRepository() listings.ListingRepository {
	return c.listingRepo
}

// ProjectRepository exposes the configured project repository.
func (c *Container) ProjectRepository() projects.ProjectRepository {
	return c.projectRepo
}

// CampaignRepository exposes the configured campaign repository.
func (c *Container) CampaignRepository() campaigns.CampaignRepository {
	return c.campaignRepo
}

// AssetRepository exposes the configured media asset repository.
func (c *Container) AssetRepository() media.AssetRepository {
	return c.assetRepo
}

// ListingService returns the configured listing service.
func (c *Container) ListingService() listings.Service {
	return c.listingSvc
}

// ProjectService returns the configured project service.
func (c *Container) ProjectService() projects.Service {
	return c.projectSvc
}

// CampaignService returns the configured campaign service.
func (c *Container) CampaignService() campaigns.Service {
	return c.campaignSvc
}

// MediaService returns the configured media service.
func (c *Container) MediaService() media.Service {
	return c.mediaSvc
}

// NoteService returns the configured note service. Nil when notes are disabled.
func (c *Container) NoteService() notes.Service {
	return c.noteSvc
}

// ReviewQueueService returns the review dashboard reads. Nil when the feature
// is disabled.
func (c *Container) ReviewQueueService() reviewqueue.Service {
	return c.reviewSvc
}
