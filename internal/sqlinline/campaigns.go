package sqlinline

const campaignColumns = `c.id, c.title, c.description, c.short_description, c.goal, c.raised,
       c.category, c.image, c.location, c.status, c.participants, c.shares, c.created_at,
       u.id, u.name, u.avatar`

const QInsertCampaign = `--sql 80f67cc7-4599-469a-914d-1c76a2371c9e
insert into campaigns (id, title, description, short_description, goal, category, image, location, creator_id, created_at, updated_at)
values (gen_random_uuid(), $1::text, $2::text, $3::text, $4::numeric, $5::text, $6::text, $7::text, $8::uuid, now(), now())
returning id;
`

const QSelectCampaignByID = `--sql 8c7f6ad6-2a3b-4019-b708-3e2e404ae402
select ` + campaignColumns + `
from campaigns c
join users u on u.id = c.creator_id
where c.id = $1::uuid
limit 1;
`

const QListCampaigns = `--sql 3501da7e-f4ca-4cfa-afd1-4f1970d608f6
select ` + campaignColumns + `
from campaigns c
join users u on u.id = c.creator_id
order by c.created_at desc;
`

const QListCampaignsByStatus = `--sql a65c48d6-1c4a-4d11-95b7-fd773c85743d
select ` + campaignColumns + `
from campaigns c
join users u on u.id = c.creator_id
where c.status = $1::text
order by c.created_at desc;
`

const QUpdateCampaignStatus = `--sql a188dd81-06a6-43e5-9e6c-974c4c9e8f82
update campaigns
set status = $2::text,
    updated_at = now()
where id = $1::uuid
returning id;
`

const QJoinCampaign = `--sql b6dedd84-a9ff-4ea1-a2f4-240797418333
update campaigns
set participants = participants + 1,
    updated_at = now()
where id = $1::uuid
returning id;
`

const QShareCampaign = `--sql e2085704-7f54-4a84-9117-3ec15adbdba3
update campaigns
set shares = shares + 1,
    updated_at = now()
where id = $1::uuid
returning id;
`
