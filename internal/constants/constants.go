package constants

const (
	APP_MAIN_STOREFRONT = "storefront"
	APP_CART_SERVICE    = "cart-service"
	APP_CATALOG_SERVICE = "catalog-service"
)

const AUDIENCE_STOREFRONT = "storefront"

const (
	KEY_ACCOUNT          = "account"
	KEY_ACCOUNT_EMAIL    = "accountEmail"
	KEY_ACTION           = "action"
	KEY_APP_NAME         = "app"
	KEY_BODY             = "body"
	KEY_CACHE_KEY        = "cacheKey"
	KEY_CART             = "cart"
	KEY_CART_ID          = "cartId"
	KEY_CART_LINE        = "cartLine"
	KEY_CART_LINE_ID     = "cartLineId"
	KEY_CART_LINES       = "cartLines"
	KEY_CONFIG           = "config"
	KEY_HEADER           = "header"
	KEY_PROCESS          = "process"
	KEY_PRODUCT          = "product"
	KEY_PRODUCT_ID       = "productId"
	KEY_PRODUCT_IDS      = "productIds"
	KEY_QUANTITY         = "quantity"
	KEY_REQUEST          = "request"
	KEY_REQUEST_HOST     = "host"
	KEY_REQUEST_ID       = "requestId"
	KEY_REQUEST_IP       = "requesterIP"
	KEY_REQUEST_METHOD   = "requestMethod"
	KEY_REQUEST_URI      = "requestURI"
	KEY_REQUEST_URL      = "requestURL"
	KEY_SPAN_ID          = "spanId"
	KEY_TAG              = "tag"
	KEY_TOKEN            = "token"
	KEY_TRACE_ID         = "traceId"
)
