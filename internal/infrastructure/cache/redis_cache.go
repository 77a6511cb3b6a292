// Package cache invalida y sirve las cachés derivadas de una cava (propuestas de layout).
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/jhoicas/Cava-api/internal/application/dto"
	"github.com/jhoicas/Cava-api/internal/application/ports"
	"github.com/jhoicas/Cava-api/pkg/logger"
)

var _ ports.CellarCache = (*RedisCache)(nil)

// RedisCache guarda las propuestas por cava bajo <prefix>:cellar:<id>:*.
type RedisCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	log    *logger.Logger
}

// NewRedisCache construye la caché sobre un cliente ya configurado.
func NewRedisCache(client *redis.Client, prefix string, ttl time.Duration, log *logger.Logger) *RedisCache {
	return &RedisCache{client: client, prefix: prefix, ttl: ttl, log: log}
}

func (c *RedisCache) cellarKey(cellarID, name string) string {
	return c.prefix + ":cellar:" + cellarID + ":" + name
}

// Invalidate borra todas las claves de la cava. Se espera antes de responder al cliente.
func (c *RedisCache) Invalidate(ctx context.Context, cellarID string) error {
	pattern := c.prefix + ":cellar:" + cellarID + ":*"
	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

// GetProposal lee la propuesta cacheada. Cualquier error cuenta como fallo de caché.
func (c *RedisCache) GetProposal(ctx context.Context, cellarID string) (*dto.LayoutProposalDTO, bool) {
	raw, err := c.client.Get(ctx, c.cellarKey(cellarID, "proposal")).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn().Err(err).Str("cellar_id", cellarID).Msg("lectura de caché fallida")
		}
		return nil, false
	}
	var p dto.LayoutProposalDTO
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, false
	}
	return &p, true
}

// SetProposal guarda la propuesta con TTL. Los fallos se registran y se ignoran.
func (c *RedisCache) SetProposal(ctx context.Context, cellarID string, p *dto.LayoutProposalDTO) {
	raw, err := json.Marshal(p)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, c.cellarKey(cellarID, "proposal"), raw, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Str("cellar_id", cellarID).Msg("escritura de caché fallida")
	}
}
