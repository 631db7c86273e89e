// Package planval validates query plans and derives the schemas of their
// relations.
//
// A Service holds the settings shared by every validation and hands each plan
// a fresh validate.Validator, so anchors never leak from one plan to the
// next. The packages below it can be used directly when finer control is
// needed: validate for plan-level checks, planner for relation trees and
// schema for the named-struct model.
package planval

import (
	"bytes"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
	"mit.edu/dsg/planval/catalog"
	"mit.edu/dsg/planval/common"
	"mit.edu/dsg/planval/config"
	"mit.edu/dsg/planval/planner"
	"mit.edu/dsg/planval/proto"
	"mit.edu/dsg/planval/schema"
	"mit.edu/dsg/planval/validate"
)

// Service validates plans under one configuration. It is safe for
// concurrent use.
type Service struct {
	policy     *catalog.ExtensionPolicy
	supported  *semver.Constraints
	collisions schema.CollisionPolicy
	functions  bool
	logger     zerolog.Logger
	metrics    *Metrics
}

// New builds a Service from cfg. Metrics are registered with reg when the
// configuration enables them and reg is not nil.
func New(cfg *config.Config, logger zerolog.Logger, reg prometheus.Registerer) (*Service, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	supported, err := cfg.Constraints()
	if err != nil {
		return nil, err
	}
	collisions, err := cfg.Collision()
	if err != nil {
		return nil, err
	}
	policy, err := catalog.NewExtensionPolicy(cfg.Extensions.AllowedOrigins...)
	if err != nil {
		return nil, errors.Wrap(err, "extension policy")
	}
	s := &Service{
		policy:     policy,
		supported:  supported,
		collisions: collisions,
		functions:  cfg.FunctionsChecked(),
		logger:     logger,
	}
	if cfg.Metrics.Enabled && reg != nil {
		s.metrics = NewMetrics(reg)
	}
	return s, nil
}

// Policy returns the extension allow-list. Origins added to it apply to
// later validations.
func (s *Service) Policy() *catalog.ExtensionPolicy {
	return s.policy
}

// Validate checks one plan.
func (s *Service) Validate(raw *proto.Plan) (*validate.Plan, error) {
	v := validate.NewValidator(
		validate.WithPolicy(s.policy),
		validate.WithSupportedVersions(s.supported),
		validate.WithCollisionPolicy(s.collisions),
		validate.WithFunctionCheck(s.functions),
		validate.WithLogger(s.logger),
	)
	start := time.Now()
	plan, err := validate.ValidatePlan(v, raw)
	s.record(time.Since(start), err)

	if err != nil {
		s.logger.Warn().Str("pass", v.PassID().String()).Stringer("code", common.CodeOf(err)).Err(err).
			Msg("plan rejected")
		return nil, err
	}
	for i, r := range plan.Relations() {
		s.logRelation(v, i, r)
	}
	s.logger.Info().Str("pass", v.PassID().String()).Int("relations", len(plan.Relations())).
		Int("extension_uris", len(plan.ExtensionURIs())).Msg("plan validated")
	return plan, nil
}

// ValidateYAML decodes a plan from its YAML form and validates it. Unknown
// keys are an error.
func (s *Service) ValidateYAML(data []byte) (*validate.Plan, error) {
	raw, err := DecodePlan(data)
	if err != nil {
		return nil, err
	}
	return s.Validate(raw)
}

// DecodePlan decodes a plan from its YAML form.
func DecodePlan(data []byte) (*proto.Plan, error) {
	var raw proto.Plan
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		return nil, errors.Wrap(err, "decode plan")
	}
	return &raw, nil
}

func (s *Service) logRelation(v *validate.Validator, i int, r *validate.PlanRelation) {
	e := s.logger.Debug()
	if !e.Enabled() {
		return
	}
	rel := r.Relation()
	if r.IsRoot() {
		rel = r.Root().Input()
	}
	e = e.Str("pass", v.PassID().String()).Int("relation", i).Bool("root", r.IsRoot()).Stringer("schema", r.Schema())
	if tree, err := planner.Explain(rel.Node()); err == nil {
		e = e.Str("tree", tree)
	}
	e.Msg("relation validated")
}

func (s *Service) record(elapsed time.Duration, err error) {
	if s.metrics == nil {
		return
	}
	s.metrics.Duration.Observe(elapsed.Seconds())
	if err != nil {
		s.metrics.Validations.WithLabelValues("invalid").Inc()
		s.metrics.Errors.WithLabelValues(common.CodeOf(err).String()).Inc()
		return
	}
	s.metrics.Validations.WithLabelValues("valid").Inc()
}
