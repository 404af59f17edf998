package service

import (
	"context"
	"errors"
	"fmt"

	"storefront-api/internal/client"
	"storefront-api/internal/model"
)

var ErrTrackingUnavailable = errors.New("tracking unavailable")

type TrackingService interface {
	Track(ctx context.Context, carrier, trackingNumber string) (*model.TrackingInfo, error)
}

type trackingServiceImpl struct {
	shippingClient client.ShippingClient // nil when unconfigured
}

func NewTrackingService(shippingClient client.ShippingClient) TrackingService {
	return &trackingServiceImpl{
		shippingClient: shippingClient,
	}
}

func (s *trackingServiceImpl) Track(ctx context.Context, carrier, trackingNumber string) (*model.TrackingInfo, error) {
	if s.shippingClient == nil {
		return nil, ErrTrackingUnavailable
	}

	info, err := s.shippingClient.Track(ctx, carrier, trackingNumber)
	if err != nil {
		return nil, fmt.Errorf("track shipment: %w", err)
	}
	return info, nil
}
