package xmla

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/beevik/etree"

	"github.com/olapd/olapd/pkg/execute"
	"github.com/olapd/olapd/pkg/logging"
	"github.com/olapd/olapd/pkg/soap"
)

// DefaultTimeout bounds statement execution when no timeout is configured.
const DefaultTimeout = 60 * time.Second

// Provider serves Discover and Execute. It implements soap.Service.
type Provider struct {
	router    *Router
	switcher  *Switcher
	engine    execute.Engine
	assembler *Assembler
	gate      Gate
	isFormula FormulaPredicate
	timeout   time.Duration
	log       *slog.Logger
}

// Option configures a Provider.
type Option func(*Provider)

// WithGate sets which operations require authentication.
func WithGate(g Gate) Option {
	return func(p *Provider) {
		p.gate = g
	}
}

// WithFormulaPredicate replaces IsFormulaQuery.
func WithFormulaPredicate(fn FormulaPredicate) Option {
	return func(p *Provider) {
		if fn != nil {
			p.isFormula = fn
		}
	}
}

// WithTimeout bounds statement execution. Zero or negative disables it.
func WithTimeout(d time.Duration) Option {
	return func(p *Provider) {
		p.timeout = d
	}
}

// WithAssembler replaces the default assembler.
func WithAssembler(a *Assembler) Option {
	return func(p *Provider) {
		if a != nil {
			p.assembler = a
		}
	}
}

// WithLogger sets the provider logger.
func WithLogger(log *slog.Logger) Option {
	return func(p *Provider) {
		if log != nil {
			p.log = log
		}
	}
}

// NewProvider wires the discovery tools, the catalogs and the execution
// engine into a provider. Fragments are rendered with execute.Tools unless
// WithAssembler is given.
func NewProvider(tools DiscoveryTools, catalogs Catalogs, engine execute.Engine, opts ...Option) *Provider {
	p := &Provider{
		router:    NewRouter(tools),
		switcher:  NewSwitcher(catalogs),
		engine:    engine,
		assembler: NewAssembler(execute.NewTools()),
		isFormula: IsFormulaQuery,
		timeout:   DefaultTimeout,
		log:       logging.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Invoke implements soap.Service.
func (p *Provider) Invoke(ctx context.Context, call *soap.Call) (*etree.Element, error) {
	var (
		result *etree.Element
		err    error
	)
	switch call.Operation {
	case OperationDiscover:
		result, err = p.discover(ctx, call)
	case OperationExecute:
		result, err = p.execute(ctx, call)
	default:
		err = fmt.Errorf("%w: %s", ErrUnsupportedOperation, call.Operation)
	}
	if err != nil {
		return nil, FaultFor(err)
	}
	return result, nil
}

func (p *Provider) discover(ctx context.Context, call *soap.Call) (*etree.Element, error) {
	if err := p.gate.Check(OperationDiscover, call.QueryString); err != nil {
		return nil, err
	}
	req, err := DecodeDiscover(call.Body)
	if err != nil {
		return nil, err
	}
	p.log.Debug("discover", "request_type", req.RequestType, "catalog", req.Catalog())
	return p.router.Dispatch(ctx, req)
}

func (p *Provider) execute(ctx context.Context, call *soap.Call) (*etree.Element, error) {
	if err := p.gate.Check(OperationExecute, call.QueryString); err != nil {
		return nil, err
	}
	req, err := DecodeExecute(call.Body)
	if err != nil {
		return nil, err
	}
	return p.Execute(ctx, req)
}

// Execute runs one Execute request. An empty statement returns the empty
// dataset without touching catalogs or the engine. The request timeout
// bounds both catalog activation and the engine run.
func (p *Provider) Execute(ctx context.Context, req *ExecuteRequest) (*etree.Element, error) {
	if req.Empty() {
		return p.assembler.EmptyExecuteResponse(), nil
	}

	runCtx := ctx
	if p.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	start := time.Now()
	qc, err := p.switcher.Switch(runCtx, req.Catalog, req.Statement)
	if err != nil {
		return nil, p.timedOut(runCtx, err)
	}
	qc.ConvertToFormulas = p.isFormula(req.Statement)

	res, err := p.engine.Run(runCtx, qc)
	if err != nil {
		return nil, p.timedOut(runCtx, err)
	}

	p.log.Debug("execute",
		"catalog", qc.Catalog.Name,
		"cube", qc.Cube.Name,
		"formulas", qc.ConvertToFormulas,
		"cells", len(res.Cells),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return p.assembler.BuildExecuteResponse(qc, res), nil
}

// timedOut maps a failure caused by the request deadline to
// ErrExecutionTimeout and returns other errors unchanged.
func (p *Provider) timedOut(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w after %s", ErrExecutionTimeout, p.timeout)
	}
	return err
}
