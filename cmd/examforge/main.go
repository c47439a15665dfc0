// Command examforge is the single binary housing every service named in
// spec.md §6: the first positional argument selects a role from the
// closed set {orchestrator, concept_guide, question_generator,
// quality_checker, correctness, image, database, verifier, all}, and the
// process hosts that role's JSON-RPC endpoint on its configured port.
// Grounded on original_source/main.py's run_agent/run_all dispatch.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/examforge/examforge/internal/concept"
	"github.com/examforge/examforge/internal/discovery"
	"github.com/examforge/examforge/internal/external/database"
	"github.com/examforge/examforge/internal/external/imagerender"
	"github.com/examforge/examforge/internal/external/llm"
	"github.com/examforge/examforge/internal/external/objectstore"
	"github.com/examforge/examforge/internal/generator"
	"github.com/examforge/examforge/internal/host"
	"github.com/examforge/examforge/internal/judge"
	"github.com/examforge/examforge/internal/orchestrator"
	"github.com/examforge/examforge/internal/pipeline"
	"github.com/examforge/examforge/internal/platform/config"
	"github.com/examforge/examforge/internal/platform/logging"
	"github.com/examforge/examforge/internal/platform/telemetry"
	"github.com/examforge/examforge/internal/port"
	"github.com/examforge/examforge/internal/remote"
	"github.com/examforge/examforge/internal/transport"
	"github.com/examforge/examforge/internal/verifier"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	role := os.Args[1]
	if !config.ValidRole(role) {
		fmt.Fprintf(os.Stderr, "Unknown role: %s\n\n", role)
		usage()
		os.Exit(1)
	}

	cfg := config.Load()
	logger := logging.New("examforge", cfg.Logging.Level, logging.Format(cfg.Logging.Format), cfg.Logging.Verbose)

	shutdownTelemetry := telemetry.Setup("examforge-" + role)
	defer func() {
		if err := shutdownTelemetry(context.Background()); err != nil {
			logger.Warn("telemetry shutdown failed", map[string]interface{}{"error": err.Error()})
		}
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	needsDB := role == string(config.RoleDatabase) || role == string(config.RoleAll)
	deps := buildDeps(ctx, cfg, logger, config.Role(role), needsDB)

	if config.Role(role) == config.RoleAll {
		runAll(ctx, cfg, logger, deps)
		return
	}

	svc, err := buildService(config.Role(role), cfg, logger, deps)
	if err != nil {
		logger.Error("failed to build service", map[string]interface{}{"role": role, "error": err.Error()})
		os.Exit(1)
	}

	boundPort, ok := port.Resolve("", cfg.Ports[config.Role(role)])
	if !ok {
		logger.Warn("configured port unavailable, falling back to an OS-assigned one", map[string]interface{}{
			"role": role, "configured_port": cfg.Ports[config.Role(role)], "bound_port": boundPort,
		})
	}

	logger.Info("starting service", map[string]interface{}{"role": role, "port": boundPort})
	if err := svc.Start(ctx, ":"+strconv.Itoa(boundPort)); err != nil {
		logger.Error("service exited with error", map[string]interface{}{"role": role, "error": err.Error()})
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("Usage: examforge <role|all>")
	fmt.Println()
	fmt.Println("Available roles:")
	fmt.Println("  orchestrator        - batch planner/fan-out facade: generate_exam, GET /agents, /api/questions/{single,blueprint}")
	fmt.Println("  concept_guide       - curriculum catalog: select_concept, list_subtopics, get_concepts")
	fmt.Println("  question_generator  - blueprint + surface generation from a selected concept")
	fmt.Println("  quality_checker     - multi-axis quality judgment and accept/revise/reject status")
	fmt.Println("  correctness         - backwards/forwards answer-correctness verification")
	fmt.Println("  verifier            - alias for correctness, bound to its own port")
	fmt.Println("  image               - diagram rendering stub, uploads via object storage")
	fmt.Println("  database            - PostgreSQL question/exam persistence")
	fmt.Println("  all                 - run every role concurrently in one process")
}

// deps holds every collaborator wired once and shared across whichever
// roles this process runs.
type deps struct {
	concepts  *concept.Registry
	llmClient llm.Client
	generator *generator.Generator
	verifier  *verifier.Verifier
	judge     *judge.Judge
	pipeline  *pipeline.Controller
	orch      *orchestrator.Orchestrator
	renderer  *imagerender.StubRenderer

	// blueprintConcepts/blueprintGenerator back the Orchestrator's debug
	// /api/questions/blueprint endpoint. They match whatever the pipeline
	// itself was wired to (in-process for "all", remote peers otherwise) so
	// the debug surface observes the same collaborators the real pipeline
	// uses instead of always reading from the local stand-ins.
	blueprintConcepts  orchestrator.BlueprintGenerator
	blueprintGenerator pipeline.QuestionGenerator

	db         *database.Pool // nil unless the database role/collaborator is reachable
	discoverer *discovery.Registry
}

func buildDeps(ctx context.Context, cfg *config.Config, logger logging.Logger, role config.Role, needsDB bool) *deps {
	concepts := concept.New(cfg.ConceptsDir)
	client := llm.NewMockClient(`{"question":"placeholder"}`)

	gen := generator.New(client)
	ver := verifier.New(client, cfg.Pipeline.StrictCorrectness)
	jdg := judge.New(client)

	// The Pipeline Controller's four collaborators are wired in-process by
	// default (the "all" role shares one binary). The orchestrator, when run
	// as its own process, instead drives them over JSON-RPC against the
	// peer services at their configured ports (spec.md §1/§2's distributed
	// deployment), the same transport.Client rest.go's /agents facade uses.
	var pipelineConcepts pipeline.ConceptSelector = concepts
	var pipelineGenerator pipeline.QuestionGenerator = gen
	var pipelineVerifier pipeline.CorrectnessVerifier = ver
	var pipelineJudge pipeline.QualityChecker = jdg

	if role == config.RoleOrchestrator {
		rpcClient := transport.NewClient(string(role), config.CallTimeout, logger)
		pipelineConcepts = remote.NewConceptSelector(rpcClient, peerEndpoint(cfg, config.RoleConceptGuide))
		pipelineGenerator = remote.NewQuestionGenerator(rpcClient, peerEndpoint(cfg, config.RoleQuestionGenerator))
		pipelineVerifier = remote.NewCorrectnessVerifier(rpcClient, peerEndpoint(cfg, config.RoleCorrectness))
		pipelineJudge = remote.NewQualityChecker(rpcClient, peerEndpoint(cfg, config.RoleQualityChecker))
	}

	pipelineCfg := pipeline.Config{MaxRevisions: cfg.Pipeline.MaxRevisions}
	ctrl := pipeline.New(pipelineConcepts, pipelineGenerator, pipelineVerifier, pipelineJudge, pipelineCfg)

	orchCfg := orchestrator.Config{RetryRounds: cfg.Pipeline.RetryRounds}
	if cfg.QuotaConfigPath != "" {
		if overrides, err := orchestrator.LoadQuotaOverrides(cfg.QuotaConfigPath); err != nil {
			logger.Warn("quota config unreadable, using built-in defaults", map[string]interface{}{"error": err.Error()})
		} else {
			orchCfg.Quotas = overrides
		}
	}
	orch := orchestrator.New(ctrl, orchCfg)

	store := objectstore.NewMemStore(cfg.ObjectStore.PublicURL)
	renderer := imagerender.NewStubRenderer(store)

	d := &deps{
		concepts:           concepts,
		llmClient:          client,
		generator:          gen,
		verifier:           ver,
		judge:              jdg,
		pipeline:           ctrl,
		orch:               orch,
		renderer:           renderer,
		blueprintConcepts:  pipelineConcepts,
		blueprintGenerator: pipelineGenerator,
	}

	if cfg.Discovery.Enabled() {
		if reg, err := discovery.New(ctx, cfg.Discovery.RedisURL); err != nil {
			logger.Warn("discovery unavailable, falling back to static ports", map[string]interface{}{"error": err.Error()})
		} else {
			d.discoverer = reg
		}
	}

	if needsDB {
		poolCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		pool, err := database.NewPool(poolCtx, database.Config{DSN: cfg.Database.ConnectionString()})
		if err != nil {
			logger.Warn("database unavailable, database role will fail to start", map[string]interface{}{"error": err.Error()})
		} else {
			d.db = pool
		}
	}

	return d
}

// buildService registers a role's handlers on a fresh Host.
func buildService(role config.Role, cfg *config.Config, logger logging.Logger, d *deps) (*host.Host, error) {
	port := cfg.Ports[role]
	baseURL := fmt.Sprintf("http://localhost:%d", port)
	h := host.New(string(role), "0.1.0", baseURL, logger)

	switch role {
	case config.RoleOrchestrator:
		h.Register("generate_exam", d.orch.GenerateExamHandler)
		client := transport.NewClient(string(role), config.CallTimeout, logger)
		h.RegisterHTTP("/agents", orchestrator.AgentsHandler(client, peerEndpoints(cfg, role)))
		h.RegisterHTTP("/api/questions/single", orchestrator.SingleQuestionHandler(d.pipeline))
		h.RegisterHTTP("/api/questions/blueprint", orchestrator.BlueprintHandler(d.blueprintConcepts, d.blueprintGenerator))
	case config.RoleConceptGuide:
		h.Register("select_concept", d.concepts.SelectConceptHandler)
		h.Register("list_subtopics", d.concepts.ListSubtopicsHandler)
		h.Register("get_concepts", d.concepts.GetConceptsHandler)
	case config.RoleQuestionGenerator:
		h.Register("generate_question", d.generator.GenerateQuestionHandler)
		h.Register("revise_question", d.generator.ReviseQuestionHandler)
	case config.RoleQualityChecker:
		h.Register("check_quality", d.judge.CheckQualityHandler)
	case config.RoleCorrectness, config.RoleVerifier:
		h.Register("verify_correctness", d.verifier.VerifyCorrectnessHandler)
	case config.RoleImage:
		h.Register("generate_diagram", d.renderer.GenerateDiagramHandler)
	case config.RoleDatabase:
		if d.db == nil {
			return nil, fmt.Errorf("database role requires a reachable Postgres instance")
		}
		h.Register("insert_questions", d.db.InsertQuestionsHandler)
		h.Register("create_exam", d.db.CreateExamHandler)
		h.Register("get_subtopics", d.db.GetSubtopicsHandler)
	default:
		return nil, fmt.Errorf("unhandled role: %s", role)
	}

	if d.discoverer != nil {
		info := discovery.ServiceInfo{Name: string(role), BaseURL: baseURL}
		if err := d.discoverer.Register(context.Background(), info); err != nil {
			logger.Warn("discovery registration failed", map[string]interface{}{"role": string(role), "error": err.Error()})
		} else {
			go d.discoverer.Heartbeat(context.Background(), info, 10*time.Second)
		}
	}

	return h, nil
}

// peerEndpoint builds the transport.Endpoint for a single role at its
// configured port, for the orchestrator's remote pipeline collaborators.
func peerEndpoint(cfg *config.Config, role config.Role) transport.Endpoint {
	return transport.Endpoint{
		Name:    string(role),
		BaseURL: fmt.Sprintf("http://localhost:%d", cfg.Ports[role]),
	}
}

// peerEndpoints builds the transport.Endpoint list for every role except
// self, for the Orchestrator's GET /agents health aggregate.
func peerEndpoints(cfg *config.Config, self config.Role) []transport.Endpoint {
	var peers []transport.Endpoint
	for _, role := range config.Roles {
		if role == self || role == config.RoleAll {
			continue
		}
		peers = append(peers, transport.Endpoint{
			Name:    string(role),
			BaseURL: fmt.Sprintf("http://localhost:%d", cfg.Ports[role]),
		})
	}
	return peers
}

// runAll starts every non-meta role concurrently in this process,
// mirroring original_source/main.py's run_all, and blocks until ctx is
// canceled.
func runAll(ctx context.Context, cfg *config.Config, logger logging.Logger, d *deps) {
	logger.Info("starting all roles", map[string]interface{}{"ports": cfg.Ports})

	var wg sync.WaitGroup
	for _, role := range config.Roles {
		if role == config.RoleAll {
			continue
		}
		role := role
		svc, err := buildService(role, cfg, logger, d)
		if err != nil {
			logger.Warn("skipping role", map[string]interface{}{"role": string(role), "error": err.Error()})
			continue
		}
		boundPort, ok := port.Resolve("", cfg.Ports[role])
		if !ok {
			logger.Warn("configured port unavailable, falling back to an OS-assigned one", map[string]interface{}{
				"role": string(role), "configured_port": cfg.Ports[role], "bound_port": boundPort,
			})
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := svc.Start(ctx, ":"+strconv.Itoa(boundPort)); err != nil {
				logger.Error("role exited with error", map[string]interface{}{"role": string(role), "error": err.Error()})
			}
		}()
	}
	wg.Wait()
}
