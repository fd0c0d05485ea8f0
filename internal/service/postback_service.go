package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"offerwall-rewards/internal/core/domain"
	"offerwall-rewards/internal/core/ports"
	"offerwall-rewards/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	defaultLockTTL   = 30 * time.Second
	defaultResultTTL = 24 * time.Hour
)

// PostbackServiceImpl implements ports.PostbackService.
type PostbackServiceImpl struct {
	userRepo       ports.UserRepository
	balanceRepo    ports.BalanceRepository
	conversionRepo ports.ConversionRepository
	lock           ports.PostbackLock
	cache          ports.PostbackResultCache
	transactor     ports.DBTransactor
	audit          ports.AuditService
	lockTTL        time.Duration
	resultTTL      time.Duration
	log            zerolog.Logger
}

// NewPostbackService creates a new PostbackServiceImpl.
// Zero TTLs fall back to 30s for locks and 24h for cached results.
func NewPostbackService(
	userRepo ports.UserRepository,
	balanceRepo ports.BalanceRepository,
	conversionRepo ports.ConversionRepository,
	lock ports.PostbackLock,
	cache ports.PostbackResultCache,
	transactor ports.DBTransactor,
	audit ports.AuditService,
	lockTTL, resultTTL time.Duration,
	log zerolog.Logger,
) *PostbackServiceImpl {
	if lockTTL <= 0 {
		lockTTL = defaultLockTTL
	}
	if resultTTL <= 0 {
		resultTTL = defaultResultTTL
	}
	return &PostbackServiceImpl{
		userRepo:       userRepo,
		balanceRepo:    balanceRepo,
		conversionRepo: conversionRepo,
		lock:           lock,
		cache:          cache,
		transactor:     transactor,
		audit:          audit,
		lockTTL:        lockTTL,
		resultTTL:      resultTTL,
		log:            log,
	}
}

// Process applies a validated postback to the user's balance exactly once
// per (provider, tx id, kind).
func (s *PostbackServiceImpl) Process(ctx context.Context, pb *domain.Postback) (*ports.PostbackResult, error) {
	if pb.UserID == uuid.Nil {
		return nil, apperror.ErrMissingParam("user_id")
	}
	if pb.TxID == "" {
		return nil, apperror.ErrMissingParam("tx_id")
	}
	if pb.Coins <= 0 {
		return nil, apperror.ErrInvalidParam("amount")
	}

	key := pb.Key()
	log := s.log.With().
		Str("provider", pb.Provider).
		Str("tx_id", pb.TxID).
		Str("kind", string(pb.Kind)).
		Logger()

	if pb.Deduplicate {
		// Layer 1: Redis result cache
		cached, err := s.cache.Get(ctx, key)
		if err != nil {
			log.Warn().Err(err).Msg("redis result check failed, falling through to DB")
		}
		if cached != nil {
			return duplicateResult(cached), nil
		}

		// In-flight lock; the unique constraint still guards if Redis is down.
		token, acquired, err := s.lock.Acquire(ctx, key, s.lockTTL)
		switch {
		case err != nil:
			log.Warn().Err(err).Msg("postback lock unavailable, relying on database constraint")
		case !acquired:
			log.Info().Msg("postback already in flight")
			return &ports.PostbackResult{Duplicate: true}, nil
		default:
			defer func() {
				if err := s.lock.Release(context.WithoutCancel(ctx), key, token); err != nil {
					log.Warn().Err(err).Msg("failed to release postback lock")
				}
			}()
		}

		// Layer 2: conversion log
		exists, err := s.conversionRepo.Exists(ctx, pb.Provider, pb.Kind, pb.TxID)
		if err != nil {
			return nil, apperror.InternalError(fmt.Errorf("check conversion: %w", err))
		}
		if exists {
			log.Info().Msg("duplicate postback")
			return &ports.PostbackResult{Duplicate: true}, nil
		}
	}

	user, err := s.userRepo.GetByID(ctx, pb.UserID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("find user: %w", err))
	}
	if user == nil {
		return nil, apperror.ErrNotFound("user")
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	balance, err := s.balanceRepo.GetForUpdate(ctx, dbTx, pb.UserID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock balance: %w", err))
	}

	conversion := &domain.Conversion{
		ID:        uuid.New(),
		Provider:  pb.Provider,
		TxID:      pb.TxID,
		Kind:      pb.Kind,
		UserID:    pb.UserID,
		Coins:     pb.Coins,
		Applied:   balance.Apply(pb.Delta()),
		Payout:    pb.Payout,
		SourceIP:  pb.SourceIP,
		RawParams: encodeParams(pb.Params),
		CreatedAt: time.Now().UTC(),
	}

	if err := s.conversionRepo.Create(ctx, dbTx, conversion); err != nil {
		if apperror.HasCode(err, "PB_007") {
			log.Info().Msg("duplicate postback rejected by conversion log")
			return &ports.PostbackResult{Duplicate: true}, nil
		}
		return nil, apperror.InternalError(fmt.Errorf("record conversion: %w", err))
	}

	if conversion.Applied != 0 {
		if err := s.balanceRepo.Update(ctx, dbTx, balance); err != nil {
			return nil, apperror.InternalError(fmt.Errorf("update balance: %w", err))
		}
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	result := &ports.PostbackResult{
		ConversionID: conversion.ID,
		Applied:      conversion.Applied,
		Balance:      balance.Points,
	}

	if pb.Deduplicate {
		if body, err := json.Marshal(result); err == nil {
			if err := s.cache.Set(ctx, key, body, s.resultTTL); err != nil {
				log.Warn().Err(err).Msg("failed to cache postback result in redis")
			}
		}
	}

	s.audit.Log(ctx, &domain.AuditLog{
		ID:           uuid.New(),
		UserID:       &pb.UserID,
		Action:       domain.AuditActionPostback,
		ResourceType: "conversion",
		ResourceID:   conversion.ID.String(),
		Details: mustJSON(map[string]any{
			"provider": pb.Provider,
			"tx_id":    pb.TxID,
			"kind":     pb.Kind,
			"coins":    pb.Coins,
			"applied":  conversion.Applied,
		}),
		IPAddress: pb.SourceIP,
		CreatedAt: conversion.CreatedAt,
	})

	if conversion.Applied != pb.Delta() {
		log.Warn().
			Int64("requested", pb.Delta()).
			Int64("applied", conversion.Applied).
			Msg("reversal clamped at zero balance")
	}

	log.Info().
		Str("user_id", pb.UserID.String()).
		Int64("applied", conversion.Applied).
		Int64("balance", balance.Points).
		Msg("postback processed")

	return result, nil
}

func duplicateResult(cached []byte) *ports.PostbackResult {
	result := &ports.PostbackResult{}
	_ = json.Unmarshal(cached, result)
	result.Duplicate = true
	return result
}

func encodeParams(params map[string]string) string {
	if len(params) == 0 {
		return ""
	}
	return mustJSON(params)
}

func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
