package store

const queryUpsertGrant = `
INSERT INTO oauth_grants (
	marketplace, access_token, refresh_token, access_expiry, refresh_expiry
) VALUES (
	@marketplace, @access_token, @refresh_token, @access_expiry, @refresh_expiry
)
ON CONFLICT (marketplace) DO UPDATE SET
	access_token   = EXCLUDED.access_token,
	refresh_token  = EXCLUDED.refresh_token,
	access_expiry  = EXCLUDED.access_expiry,
	refresh_expiry = EXCLUDED.refresh_expiry,
	updated_at     = now()
RETURNING updated_at
`

const queryGetGrant = `
SELECT marketplace, access_token, refresh_token, access_expiry, refresh_expiry, updated_at
FROM oauth_grants
WHERE marketplace = $1
`

const queryDeleteGrant = `
DELETE FROM oauth_grants
WHERE marketplace = $1
`
