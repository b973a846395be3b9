package cache

const KEY_PRODUCT_BY_ID = "products:%s"
