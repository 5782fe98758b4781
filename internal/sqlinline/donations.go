package sqlinline

// QInsertDonation records the donation and bumps the campaign's raised total
// in one statement, so the pair is atomic and the increment is set-based.
// Zero returned rows means the campaign does not exist.
const QInsertDonation = `--sql ebfeaf0c-e2e9-4ffd-b310-caa7d204f1af
with target as (
    select id from campaigns where id = $1::uuid
),
ins as (
    insert into donations (id, campaign_id, user_id, amount, display_name, message, created_at)
    select gen_random_uuid(), t.id, $2::uuid, $3::numeric, $4::text, nullif($5::text, ''), now()
    from target t
    returning id, created_at
),
bump as (
    update campaigns
    set raised = raised + $3::numeric,
        updated_at = now()
    where id in (select id from target)
)
select id, created_at from ins;
`

const QListDonationsByCampaign = `--sql 078235a6-2640-47fe-bc8e-955b377dc430
select id, campaign_id, user_id, amount, display_name, message, created_at
from donations
where campaign_id = $1::uuid
order by created_at desc;
`
