package otel

import (
	"go.opentelemetry.io/otel"

	"github.com/avelane/storefront/internal/constants"
)

var Tracer = otel.Tracer(constants.APP_CATALOG_SERVICE)
