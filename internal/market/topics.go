package market

import "strconv"

const (
	TopicProductViewed  = "market.product.viewed"
	TopicProductCreated = "market.product.created"
	TopicProductDeleted = "market.product.deleted"
)

// Partition key for view events is the buyer id so one buyer's views stay ordered.
func BuyerKey(buyerID int64) []byte { return []byte(strconv.FormatInt(buyerID, 10)) }

func ProductKey(productID int64) []byte { return []byte(strconv.FormatInt(productID, 10)) }
