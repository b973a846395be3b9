package cache

const KEY_CART_BY_EMAIL = "carts:account:%s"
