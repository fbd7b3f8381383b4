package cash

const (
	// AccountStorageOverhead is charged on top of the data length of
	// every account.
	AccountStorageOverhead = 128

	// LamportsPerByteYear is the storage price.
	LamportsPerByteYear = 3480

	// ExemptionThreshold is the number of years an account must be able
	// to pay for to be exempt.
	ExemptionThreshold = 2
)

// RentExemptMinimum returns the lamports an account holding dataLen bytes
// must keep to be exempt from rent.
func RentExemptMinimum(dataLen int) uint64 {
	return uint64(AccountStorageOverhead+dataLen) * LamportsPerByteYear * ExemptionThreshold
}
